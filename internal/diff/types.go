/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"context"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/model"
)

// Differ defines the interface for performing stack diffs
type Differ interface {
	// DiffStack compares a synthesized stack with the deployed stack
	DiffStack(ctx context.Context, stack *model.Stack, options Options) (*Result, error)
}

// Options configures what aspects of the stack to compare and how to format output
type Options struct {
	// Filter options - if both are false, compare everything
	TemplateOnly bool
	TagsOnly     bool

	// Output format: "text" or "json"
	Format string
}

// Result contains the results of a stack diff operation
type Result struct {
	StackName      string
	Context        string
	StackExists    bool
	TemplateChange *TemplateChange
	TagDiffs       []TagDiff
	ChangeSet      *aws.ChangeSetInfo // CloudFormation preview when available
	Options        Options
}

// HasChanges returns true if any changes were detected
func (r *Result) HasChanges() bool {
	if !r.StackExists {
		return true
	}

	if r.TemplateChange != nil && r.TemplateChange.HasChanges {
		return true
	}

	return len(r.TagDiffs) > 0
}

// String returns a representation of the diff in the configured format
func (r *Result) String() string {
	if r.Options.Format == "json" {
		return r.JSON()
	}
	return r.Text(NewStyles(ShouldUseColour()))
}

// ChangeType indicates the type of change detected
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "ADD"
	ChangeTypeModify ChangeType = "MODIFY"
	ChangeTypeRemove ChangeType = "REMOVE"
)

// TemplateChange represents differences in CloudFormation templates
type TemplateChange struct {
	HasChanges   bool
	CurrentHash  string
	ProposedHash string
	Resources    []ResourceDiff
	Sections     []SectionDiff
}

// Count returns how many resources have the given change type
func (t *TemplateChange) Count(changeType ChangeType) int {
	count := 0
	for _, r := range t.Resources {
		if r.ChangeType == changeType {
			count++
		}
	}
	return count
}

// ResourceDiff is a resource that differs between two templates
type ResourceDiff struct {
	LogicalID    string
	ResourceType string
	ChangeType   ChangeType
}

// SectionDiff is a top-level template section other than Resources that differs
type SectionDiff struct {
	Name       string
	ChangeType ChangeType
}

// TagDiff represents a difference in stack tags
type TagDiff struct {
	Key           string
	CurrentValue  string
	ProposedValue string
	ChangeType    ChangeType
}

// TemplateComparator handles CloudFormation template comparisons
type TemplateComparator interface {
	Compare(ctx context.Context, currentTemplate, proposedTemplate string) (*TemplateChange, error)
}

// TagComparator handles tag comparisons
type TagComparator interface {
	Compare(currentTags, proposedTags map[string]string) ([]TagDiff, error)
}
