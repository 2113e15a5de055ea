/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/cfn"
	"github.com/orien/cistack/internal/model"
	"github.com/sirupsen/logrus"
)

// StackDescriber implements the Describer interface using AWS CloudFormation operations
type StackDescriber struct {
	clientFactory aws.ClientFactory
}

// NewStackDescriber creates a new describer with the provided client factory
func NewStackDescriber(clientFactory aws.ClientFactory) Describer {
	return &StackDescriber{
		clientFactory: clientFactory,
	}
}

// DescribeStack retrieves the deployed state of a stack
func (d *StackDescriber) DescribeStack(ctx context.Context, stack *model.Stack) (*StackDescription, error) {
	region := stack.Region()
	cfOps, err := d.clientFactory.GetCloudFormationOperations(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to get CloudFormation operations for region %s: %w", region, err)
	}

	stackInfo, err := cfOps.DescribeStack(ctx, stack.Name)
	if err != nil {
		return nil, err
	}

	description := &StackDescription{
		Name:        stackInfo.Name,
		Status:      string(stackInfo.Status),
		CreatedTime: dereferenceTime(stackInfo.CreatedTime),
		UpdatedTime: stackInfo.UpdatedTime,
		Description: stackInfo.Description,
		Outputs:     nonNil(stackInfo.Outputs),
		Tags:        nonNil(stackInfo.Tags),
		Resources:   deployedResources(stack.Name, stackInfo.Template),
		Region:      region,
	}
	if stack.Context != nil {
		description.Context = stack.Context.Name
	}

	return description, nil
}

// deployedResources lists the resources of a deployed template. A template
// that cannot be parsed yields no resources.
func deployedResources(stackName, body string) []Resource {
	if body == "" {
		return nil
	}

	template, err := cfn.Parse([]byte(body))
	if err != nil {
		logrus.WithError(err).WithField("stack", stackName).Debug("could not parse deployed template")
		return nil
	}

	resources := make([]Resource, 0, len(template.Resources))
	for logicalID, resource := range template.Resources {
		resources = append(resources, Resource{LogicalID: logicalID, Type: resource.Type})
	}
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].LogicalID < resources[j].LogicalID
	})
	return resources
}

func dereferenceTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return make(map[string]string)
	}
	return m
}
