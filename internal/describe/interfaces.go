/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"
	"time"

	"github.com/orien/cistack/internal/model"
)

// Describer defines the interface for retrieving detailed stack information
type Describer interface {
	DescribeStack(ctx context.Context, stack *model.Stack) (*StackDescription, error)
}

// StackDescription contains comprehensive information about a deployed build stack
type StackDescription struct {
	Name        string
	Status      string
	CreatedTime time.Time
	UpdatedTime *time.Time
	Description string

	Outputs   map[string]string
	Tags      map[string]string
	Resources []Resource

	Context string
	Region  string
}

// Resource is a resource declared by the deployed template
type Resource struct {
	LogicalID string
	Type      string
}
