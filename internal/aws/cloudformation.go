/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
)

// StackStatus represents the status of a CloudFormation stack
type StackStatus string

const (
	StackStatusCreateInProgress         StackStatus = "CREATE_IN_PROGRESS"
	StackStatusCreateComplete           StackStatus = "CREATE_COMPLETE"
	StackStatusCreateFailed             StackStatus = "CREATE_FAILED"
	StackStatusDeleteInProgress         StackStatus = "DELETE_IN_PROGRESS"
	StackStatusDeleteComplete           StackStatus = "DELETE_COMPLETE"
	StackStatusDeleteFailed             StackStatus = "DELETE_FAILED"
	StackStatusUpdateInProgress         StackStatus = "UPDATE_IN_PROGRESS"
	StackStatusUpdateComplete           StackStatus = "UPDATE_COMPLETE"
	StackStatusUpdateFailed             StackStatus = "UPDATE_FAILED"
	StackStatusUpdateRollbackInProgress StackStatus = "UPDATE_ROLLBACK_IN_PROGRESS"
	StackStatusUpdateRollbackComplete   StackStatus = "UPDATE_ROLLBACK_COMPLETE"
	StackStatusUpdateRollbackFailed     StackStatus = "UPDATE_ROLLBACK_FAILED"
	StackStatusRollbackInProgress       StackStatus = "ROLLBACK_IN_PROGRESS"
	StackStatusRollbackComplete         StackStatus = "ROLLBACK_COMPLETE"
	StackStatusRollbackFailed           StackStatus = "ROLLBACK_FAILED"
	StackStatusReviewInProgress         StackStatus = "REVIEW_IN_PROGRESS"
)

// IsTerminal reports whether the stack has finished its current operation
func (s StackStatus) IsTerminal() bool {
	status := string(s)
	return strings.HasSuffix(status, "_COMPLETE") || strings.HasSuffix(status, "_FAILED")
}

// IsFailure reports whether a terminal status means the operation did not succeed
func (s StackStatus) IsFailure() bool {
	status := string(s)
	return strings.HasSuffix(status, "_FAILED") || strings.Contains(status, "ROLLBACK_COMPLETE")
}

// Stack represents a CloudFormation stack with essential information
type Stack struct {
	Name        string
	Status      StackStatus
	CreatedTime *time.Time
	UpdatedTime *time.Time
	Description string
	Outputs     map[string]string
	Tags        map[string]string
}

// StackInfo represents a deployed stack along with its template
type StackInfo struct {
	Stack
	Template string
}

// DeployStackInput contains what is needed to create or update a stack
type DeployStackInput struct {
	StackName    string
	TemplateBody string
	Tags         map[string]string
	Capabilities []string
}

// DeleteStackInput contains parameters for deleting a stack
type DeleteStackInput struct {
	StackName string
}

// StackEvent is a single entry from a stack's event history
type StackEvent struct {
	EventId              string
	StackName            string
	LogicalResourceId    string
	ResourceType         string
	Timestamp            time.Time
	ResourceStatus       string
	ResourceStatusReason string
}

// ErrNoChanges is returned when a change set would not change the stack
var ErrNoChanges = errors.New("no changes to deploy")

// ErrStackNotFound is returned when CloudFormation has no stack with the given name
var ErrStackNotFound = errors.New("stack not found")

const defaultPollInterval = 5 * time.Second

// DefaultCloudFormationOperations provides CloudFormation-specific operations
type DefaultCloudFormationOperations struct {
	client       CloudFormationClient
	pollInterval time.Duration
}

// NewCloudFormationOperationsWithClient creates operations with a custom client (for testing)
func NewCloudFormationOperationsWithClient(client CloudFormationClient) *DefaultCloudFormationOperations {
	return &DefaultCloudFormationOperations{
		client:       client,
		pollInterval: defaultPollInterval,
	}
}

// DeleteStack deletes a CloudFormation stack
func (cf *DefaultCloudFormationOperations) DeleteStack(ctx context.Context, input DeleteStackInput) error {
	_, err := cf.client.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(input.StackName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete stack %s: %w", input.StackName, err)
	}

	return nil
}

// GetStack retrieves information about a specific stack
func (cf *DefaultCloudFormationOperations) GetStack(ctx context.Context, stackName string) (*Stack, error) {
	result, err := cf.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
		}
		return nil, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}

	if len(result.Stacks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
	}

	cfnStack := result.Stacks[0]
	stack := &Stack{
		Name:        aws.ToString(cfnStack.StackName),
		Status:      StackStatus(cfnStack.StackStatus),
		CreatedTime: cfnStack.CreationTime,
		UpdatedTime: cfnStack.LastUpdatedTime,
		Description: aws.ToString(cfnStack.Description),
		Outputs:     make(map[string]string),
		Tags:        make(map[string]string),
	}

	for _, output := range cfnStack.Outputs {
		stack.Outputs[aws.ToString(output.OutputKey)] = aws.ToString(output.OutputValue)
	}

	for _, tag := range cfnStack.Tags {
		stack.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}

	return stack, nil
}

// ValidateTemplate validates a CloudFormation template
func (cf *DefaultCloudFormationOperations) ValidateTemplate(ctx context.Context, templateBody string) error {
	_, err := cf.client.ValidateTemplate(ctx, &cloudformation.ValidateTemplateInput{
		TemplateBody: aws.String(templateBody),
	})
	if err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}

	return nil
}

// StackExists checks if a stack exists
func (cf *DefaultCloudFormationOperations) StackExists(ctx context.Context, stackName string) (bool, error) {
	result, err := cf.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if stack exists: %w", err)
	}

	// A stack left behind by a never-executed CREATE change set has no resources yet
	for _, s := range result.Stacks {
		if s.StackStatus != types.StackStatusReviewInProgress {
			return true, nil
		}
	}
	return false, nil
}

// isStackNotFoundError checks if the error indicates the stack doesn't exist
func isStackNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist")
	}
	return strings.Contains(err.Error(), "does not exist")
}

// GetTemplate retrieves the template for a CloudFormation stack
func (cf *DefaultCloudFormationOperations) GetTemplate(ctx context.Context, stackName string) (string, error) {
	result, err := cf.client.GetTemplate(ctx, &cloudformation.GetTemplateInput{
		StackName:     aws.String(stackName),
		TemplateStage: types.TemplateStageOriginal,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get template for stack %s: %w", stackName, err)
	}

	return aws.ToString(result.TemplateBody), nil
}

// DescribeStack retrieves detailed information about a specific stack including template
func (cf *DefaultCloudFormationOperations) DescribeStack(ctx context.Context, stackName string) (*StackInfo, error) {
	stack, err := cf.GetStack(ctx, stackName)
	if err != nil {
		return nil, err
	}

	template, err := cf.GetTemplate(ctx, stackName)
	if err != nil {
		return nil, err
	}

	return &StackInfo{
		Stack:    *stack,
		Template: template,
	}, nil
}

// DescribeStackEvents returns the stack's events, newest first
func (cf *DefaultCloudFormationOperations) DescribeStackEvents(ctx context.Context, stackName string) ([]StackEvent, error) {
	result, err := cf.client.DescribeStackEvents(ctx, &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe events for stack %s: %w", stackName, err)
	}

	events := make([]StackEvent, 0, len(result.StackEvents))
	for _, e := range result.StackEvents {
		events = append(events, StackEvent{
			EventId:              aws.ToString(e.EventId),
			StackName:            aws.ToString(e.StackName),
			LogicalResourceId:    aws.ToString(e.LogicalResourceId),
			ResourceType:         aws.ToString(e.ResourceType),
			Timestamp:            aws.ToTime(e.Timestamp),
			ResourceStatus:       string(e.ResourceStatus),
			ResourceStatusReason: aws.ToString(e.ResourceStatusReason),
		})
	}

	return events, nil
}

// WaitForStackOperation polls the stack until it reaches a terminal status,
// passing each event newer than startTime to eventCallback in the order it
// occurred. A stack that disappears while waiting is treated as deleted.
func (cf *DefaultCloudFormationOperations) WaitForStackOperation(ctx context.Context, stackName string, startTime time.Time, eventCallback func(StackEvent)) error {
	seen := make(map[string]struct{})

	for {
		if eventCallback != nil {
			cf.reportEvents(ctx, stackName, startTime, seen, eventCallback)
		}

		stack, err := cf.GetStack(ctx, stackName)
		if err != nil {
			if isStackNotFoundError(err) {
				return nil
			}
			return err
		}

		if stack.Status.IsTerminal() {
			if eventCallback != nil {
				cf.reportEvents(ctx, stackName, startTime, seen, eventCallback)
			}
			if stack.Status.IsFailure() {
				return fmt.Errorf("stack %s finished with status %s", stackName, stack.Status)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cf.pollInterval):
		}
	}
}

// reportEvents delivers unseen events since startTime, oldest first. Event
// lookup failures are skipped; the status poll decides the outcome.
func (cf *DefaultCloudFormationOperations) reportEvents(ctx context.Context, stackName string, startTime time.Time, seen map[string]struct{}, eventCallback func(StackEvent)) {
	events, err := cf.DescribeStackEvents(ctx, stackName)
	if err != nil {
		return
	}

	fresh := make([]StackEvent, 0, len(events))
	for _, event := range events {
		if event.Timestamp.Before(startTime) {
			continue
		}
		if _, ok := seen[event.EventId]; ok {
			continue
		}
		seen[event.EventId] = struct{}{}
		fresh = append(fresh, event)
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Timestamp.Before(fresh[j].Timestamp)
	})
	for _, event := range fresh {
		eventCallback(event)
	}
}
