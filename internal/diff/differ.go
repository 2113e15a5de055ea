/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"context"
	"errors"
	"fmt"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/model"
	"github.com/sirupsen/logrus"
)

// DefaultDiffer implements the Differ interface using AWS CloudFormation
type DefaultDiffer struct {
	clientFactory      aws.ClientFactory
	templateComparator TemplateComparator
	tagComparator      TagComparator
}

// NewDefaultDiffer creates a new DefaultDiffer with AWS integration
func NewDefaultDiffer(clientFactory aws.ClientFactory) *DefaultDiffer {
	return &DefaultDiffer{
		clientFactory:      clientFactory,
		templateComparator: NewTemplateComparator(),
		tagComparator:      NewTagComparator(),
	}
}

// NewDifferWithComparators creates a DefaultDiffer with the given comparators
func NewDifferWithComparators(clientFactory aws.ClientFactory, templateComparator TemplateComparator, tagComparator TagComparator) *DefaultDiffer {
	return &DefaultDiffer{
		clientFactory:      clientFactory,
		templateComparator: templateComparator,
		tagComparator:      tagComparator,
	}
}

// DiffStack compares a synthesized stack with the deployed stack
func (d *DefaultDiffer) DiffStack(ctx context.Context, stack *model.Stack, options Options) (*Result, error) {
	result := &Result{
		StackName: stack.Name,
		Options:   options,
	}
	if stack.Context != nil {
		result.Context = stack.Context.Name
	}

	cfnOps, err := d.clientFactory.GetCloudFormationOperations(ctx, stack.Region())
	if err != nil {
		return nil, fmt.Errorf("failed to get CloudFormation operations: %w", err)
	}

	stackExists, err := cfnOps.StackExists(ctx, stack.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check if stack exists: %w", err)
	}
	result.StackExists = stackExists

	if !stackExists {
		return d.handleNewStack(stack, result)
	}

	currentStack, err := cfnOps.DescribeStack(ctx, stack.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to describe stack: %w", err)
	}

	proposedTemplate, err := stack.GetTemplateContent()
	if err != nil {
		return nil, fmt.Errorf("failed to get proposed template content: %w", err)
	}

	if !options.TagsOnly {
		templateChange, err := d.templateComparator.Compare(ctx, currentStack.Template, proposedTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to compare templates: %w", err)
		}
		result.TemplateChange = templateChange
	}

	if !options.TemplateOnly {
		tagDiffs, err := d.tagComparator.Compare(currentStack.Tags, stack.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to compare tags: %w", err)
		}
		result.TagDiffs = tagDiffs
	}

	if result.HasChanges() && !options.TemplateOnly && !options.TagsOnly {
		changeSet, err := cfnOps.CreateChangeSetPreview(ctx, aws.DeployStackInput{
			StackName:    stack.Name,
			TemplateBody: proposedTemplate,
			Tags:         stack.Tags,
			Capabilities: stack.Capabilities,
		})
		switch {
		case errors.Is(err, aws.ErrNoChanges):
			logrus.WithField("stack", stack.Name).Debug("changeset preview reported no changes")
		case err != nil:
			// the preview is informational; the local diff stands on its own
			logrus.WithError(err).WithField("stack", stack.Name).Warn("failed to generate changeset preview")
		default:
			result.ChangeSet = changeSet
		}
	}

	return result, nil
}

// handleNewStack reports every resource and tag of a stack that is not yet deployed
func (d *DefaultDiffer) handleNewStack(stack *model.Stack, result *Result) (*Result, error) {
	proposedTemplate, err := stack.GetTemplateContent()
	if err != nil {
		return nil, fmt.Errorf("failed to get proposed template content: %w", err)
	}

	resources, err := NewResources(proposedTemplate)
	if err != nil {
		return nil, err
	}

	proposedData, err := parseTemplate(proposedTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	result.TemplateChange = &TemplateChange{
		HasChanges:   true,
		ProposedHash: hashTemplate(proposedData),
		Resources:    resources,
	}

	tagDiffs, err := d.tagComparator.Compare(nil, stack.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to compare tags: %w", err)
	}
	result.TagDiffs = tagDiffs

	return result, nil
}
