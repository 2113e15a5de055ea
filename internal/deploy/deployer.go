/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/diff"
	"github.com/orien/cistack/internal/model"
	"github.com/orien/cistack/internal/prompt"
	"github.com/orien/cistack/internal/resolve"
	"github.com/sirupsen/logrus"
)

// Deployer defines the interface for stack deployment operations
type Deployer interface {
	DeployStack(ctx context.Context, stack *model.Stack) error
	DeploySingleStack(ctx context.Context, stackName, contextName string) error
	DeployAllStacks(ctx context.Context, contextName string) error
}

// StackDeployer deploys synthesized stacks through CloudFormation change sets
type StackDeployer struct {
	clientFactory aws.ClientFactory
	resolver      resolve.Resolver
}

// NewStackDeployer creates a new StackDeployer
func NewStackDeployer(clientFactory aws.ClientFactory, resolver resolve.Resolver) *StackDeployer {
	return &StackDeployer{
		clientFactory: clientFactory,
		resolver:      resolver,
	}
}

// DeployStack previews the change set, asks for confirmation, then executes
// it and streams stack events until the operation finishes
func (d *StackDeployer) DeployStack(ctx context.Context, stack *model.Stack) error {
	region := stack.Region()
	cfnOps, err := d.clientFactory.GetCloudFormationOperations(ctx, region)
	if err != nil {
		return fmt.Errorf("failed to get CloudFormation operations for region %s: %w", region, err)
	}

	templateBody, err := stack.GetTemplateContent()
	if err != nil {
		return fmt.Errorf("failed to get template content: %w", err)
	}

	changeSet, err := cfnOps.CreateChangeSetForDeployment(ctx, aws.DeployStackInput{
		StackName:    stack.Name,
		TemplateBody: templateBody,
		Tags:         stack.Tags,
		Capabilities: stack.Capabilities,
	})
	if errors.Is(err, aws.ErrNoChanges) {
		fmt.Printf("Stack %s is already up to date\n", stack.Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create changeset: %w", err)
	}

	var preview strings.Builder
	diff.WriteChangeSet(&preview, diff.NewStyles(diff.ShouldUseColour()), changeSet)
	fmt.Printf("\nChanges to stack %s (%s):\n", stack.Name, strings.ToLower(changeSet.ChangeSetType))
	fmt.Print(preview.String())

	confirmed, err := prompt.Confirm(fmt.Sprintf("Do you want to apply these changes to stack %s?", stack.Name))
	if err != nil {
		d.discardChangeSet(ctx, cfnOps, changeSet)
		return fmt.Errorf("failed to get user confirmation: %w", err)
	}
	if !confirmed {
		d.discardChangeSet(ctx, cfnOps, changeSet)
		fmt.Printf("Deployment of stack %s cancelled\n", stack.Name)
		return nil
	}

	startTime := time.Now()
	if err := cfnOps.ExecuteChangeSet(ctx, changeSet.ChangeSetID); err != nil {
		return fmt.Errorf("failed to deploy stack: %w", err)
	}

	fmt.Printf("Waiting for stack %s to finish deploying...\n", stack.Name)
	err = cfnOps.WaitForStackOperation(ctx, stack.Name, startTime, PrintStackEvent)
	if err != nil {
		return fmt.Errorf("failed to wait for stack deployment: %w", err)
	}

	fmt.Printf("Stack %s deployed successfully\n", stack.Name)
	return nil
}

// discardChangeSet removes a change set that will not be executed
func (d *StackDeployer) discardChangeSet(ctx context.Context, cfnOps aws.CloudFormationOperations, changeSet *aws.ChangeSetInfo) {
	if err := cfnOps.DeleteChangeSet(ctx, changeSet.ChangeSetID); err != nil {
		logrus.WithError(err).WithField("changeset", changeSet.ChangeSetID).Warn("failed to delete changeset")
	}
}

// DeploySingleStack resolves and deploys one stack of a context
func (d *StackDeployer) DeploySingleStack(ctx context.Context, stackName, contextName string) error {
	stack, err := d.resolver.ResolveStack(ctx, contextName, stackName)
	if err != nil {
		return fmt.Errorf("failed to resolve stack %s: %w", stackName, err)
	}

	if err := d.DeployStack(ctx, stack); err != nil {
		return fmt.Errorf("error deploying stack %s: %w", stackName, err)
	}
	return nil
}

// DeployAllStacks resolves every stack of a context and deploys them in name order
func (d *StackDeployer) DeployAllStacks(ctx context.Context, contextName string) error {
	stacks, err := d.resolver.ResolveStacks(ctx, contextName, nil)
	if err != nil {
		return fmt.Errorf("failed to resolve stacks: %w", err)
	}

	if len(stacks) == 0 {
		fmt.Printf("No stacks found in context %s\n", contextName)
		return nil
	}

	for _, stack := range stacks {
		if err := d.DeployStack(ctx, stack); err != nil {
			return fmt.Errorf("error deploying stack %s: %w", stack.Name, err)
		}
	}
	return nil
}

// PrintStackEvent writes a stack event as a progress line
func PrintStackEvent(event aws.StackEvent) {
	fmt.Printf("  %s %s %s %s\n",
		event.Timestamp.Format("15:04:05"),
		event.LogicalResourceId,
		event.ResourceType,
		event.ResourceStatus)
	if event.ResourceStatusReason != "" {
		fmt.Printf("    Reason: %s\n", event.ResourceStatusReason)
	}
}
