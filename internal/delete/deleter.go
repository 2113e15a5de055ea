/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package delete

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/config"
	"github.com/orien/cistack/internal/deploy"
	"github.com/orien/cistack/internal/model"
	"github.com/orien/cistack/internal/prompt"
	"github.com/orien/cistack/internal/resolve"
)

// Deleter defines the interface for stack deletion operations
type Deleter interface {
	DeleteStack(ctx context.Context, stack *model.Stack) error
	DeleteSingleStack(ctx context.Context, stackName, contextName string) error
	DeleteAllStacks(ctx context.Context, contextName string) error
}

// StackDeleter implements Deleter using AWS CloudFormation
type StackDeleter struct {
	clientFactory  aws.ClientFactory
	configProvider config.ConfigProvider
	resolver       resolve.Resolver
}

// NewStackDeleter creates a new StackDeleter
func NewStackDeleter(clientFactory aws.ClientFactory, configProvider config.ConfigProvider, resolver resolve.Resolver) *StackDeleter {
	return &StackDeleter{
		clientFactory:  clientFactory,
		configProvider: configProvider,
		resolver:       resolver,
	}
}

// DeleteStack deletes a CloudFormation stack with confirmation
func (d *StackDeleter) DeleteStack(ctx context.Context, stack *model.Stack) error {
	region := stack.Region()
	cfnOps, err := d.clientFactory.GetCloudFormationOperations(ctx, region)
	if err != nil {
		return fmt.Errorf("failed to get CloudFormation operations for region %s: %w", region, err)
	}

	// GetStack also sees stacks left in REVIEW_IN_PROGRESS by an unexecuted change set
	stackInfo, err := cfnOps.GetStack(ctx, stack.Name)
	if errors.Is(err, aws.ErrStackNotFound) {
		fmt.Printf("Stack %s does not exist, skipping deletion\n", stack.Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to describe stack %s: %w", stack.Name, err)
	}

	fmt.Printf("\n=== Stack Deletion Preview ===\n")
	fmt.Printf("Stack Name: %s\n", stack.Name)
	if stack.Context != nil {
		fmt.Printf("Context: %s\n", stack.Context.Name)
	}
	fmt.Printf("Status: %s\n", stackInfo.Status)
	if stackInfo.Description != "" {
		fmt.Printf("Description: %s\n", stackInfo.Description)
	}
	if projectName, ok := stackInfo.Outputs["ProjectName"]; ok {
		fmt.Printf("Build Project: %s\n", projectName)
	}

	fmt.Printf("\nThis deletes the build project and its execution role. Build history in CloudWatch Logs is kept.\n")
	fmt.Printf("WARNING: This operation cannot be undone!\n")

	message := fmt.Sprintf("Do you want to delete stack %s? This cannot be undone.", stack.Name)
	confirmed, err := prompt.Confirm(message)
	if err != nil {
		return fmt.Errorf("failed to get user confirmation: %w", err)
	}

	if !confirmed {
		fmt.Printf("Deletion of stack %s cancelled by user\n", stack.Name)
		return nil
	}

	fmt.Printf("Deleting stack %s...\n", stack.Name)

	// events older than this belong to earlier operations
	startTime := time.Now()

	deleteInput := aws.DeleteStackInput{
		StackName: stack.Name,
	}

	err = cfnOps.DeleteStack(ctx, deleteInput)
	if err != nil {
		return fmt.Errorf("failed to delete stack %s: %w", stack.Name, err)
	}

	fmt.Printf("Waiting for stack deletion to complete...\n")
	err = cfnOps.WaitForStackOperation(ctx, stack.Name, startTime, deploy.PrintStackEvent)
	if err != nil {
		return fmt.Errorf("failed to wait for stack deletion: %w", err)
	}

	return nil
}

// DeleteSingleStack handles deletion of a single stack
func (d *StackDeleter) DeleteSingleStack(ctx context.Context, stackName, contextName string) error {
	stack, err := d.resolver.ResolveStack(ctx, contextName, stackName)
	if err != nil {
		return err
	}

	return d.deleteStackWithFeedback(ctx, stack, contextName)
}

// DeleteAllStacks deletes every stack in a context, in reverse name order
func (d *StackDeleter) DeleteAllStacks(ctx context.Context, contextName string) error {
	stackNames, err := d.configProvider.ListStacks(contextName)
	if err != nil {
		return err
	}
	if len(stackNames) == 0 {
		fmt.Printf("No stacks found in context %s\n", contextName)
		return nil
	}

	// deployment runs in name order, so deletion unwinds it
	deletionOrder := append([]string(nil), stackNames...)
	sort.Sort(sort.Reverse(sort.StringSlice(deletionOrder)))

	for _, stackName := range deletionOrder {
		stack, err := d.resolver.ResolveStack(ctx, contextName, stackName)
		if err != nil {
			return err
		}

		if err := d.deleteStackWithFeedback(ctx, stack, contextName); err != nil {
			return err
		}
	}

	return nil
}

// deleteStackWithFeedback deletes a stack and provides feedback
func (d *StackDeleter) deleteStackWithFeedback(ctx context.Context, stack *model.Stack, contextName string) error {
	err := d.DeleteStack(ctx, stack)
	if err != nil {
		return fmt.Errorf("error deleting stack %s: %w", stack.Name, err)
	}

	fmt.Printf("Successfully deleted stack %s in context %s\n", stack.Name, contextName)
	return nil
}
