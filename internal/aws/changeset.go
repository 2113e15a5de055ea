/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/sirupsen/logrus"
)

const changeSetTimeout = 5 * time.Minute

// CreateChangeSetForDeployment creates a change set that creates the stack
// when it does not exist yet or updates it otherwise. The change set is left
// in place for ExecuteChangeSet. ErrNoChanges is returned, and the change set
// removed, when the template and tags match what is deployed.
func (cf *DefaultCloudFormationOperations) CreateChangeSetForDeployment(ctx context.Context, input DeployStackInput) (*ChangeSetInfo, error) {
	exists, err := cf.StackExists(ctx, input.StackName)
	if err != nil {
		return nil, err
	}

	changeSetType := types.ChangeSetTypeCreate
	if exists {
		changeSetType = types.ChangeSetTypeUpdate
	}

	return cf.createChangeSet(ctx, input, changeSetType)
}

// CreateChangeSetPreview creates an update change set for an existing stack,
// describes it and deletes it again
func (cf *DefaultCloudFormationOperations) CreateChangeSetPreview(ctx context.Context, input DeployStackInput) (*ChangeSetInfo, error) {
	info, err := cf.createChangeSet(ctx, input, types.ChangeSetTypeUpdate)
	if err != nil {
		return nil, err
	}

	if err := cf.DeleteChangeSet(ctx, info.ChangeSetID); err != nil {
		logrus.WithError(err).WithField("changeset", info.ChangeSetID).Warn("failed to delete preview changeset")
	}

	return info, nil
}

// ExecuteChangeSet starts applying a change set to its stack
func (cf *DefaultCloudFormationOperations) ExecuteChangeSet(ctx context.Context, changeSetID string) error {
	_, err := cf.client.ExecuteChangeSet(ctx, &cloudformation.ExecuteChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return fmt.Errorf("failed to execute changeset %s: %w", changeSetID, err)
	}

	return nil
}

// DeleteChangeSet deletes a CloudFormation changeset
func (cf *DefaultCloudFormationOperations) DeleteChangeSet(ctx context.Context, changeSetID string) error {
	_, err := cf.client.DeleteChangeSet(ctx, &cloudformation.DeleteChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete changeset %s: %w", changeSetID, err)
	}

	return nil
}

func (cf *DefaultCloudFormationOperations) createChangeSet(ctx context.Context, input DeployStackInput, changeSetType types.ChangeSetType) (*ChangeSetInfo, error) {
	changeSetName := fmt.Sprintf("cistack-%d", time.Now().Unix())

	tags := make([]types.Tag, 0, len(input.Tags))
	for _, k := range sortedKeys(input.Tags) {
		tags = append(tags, types.Tag{
			Key:   aws.String(k),
			Value: aws.String(input.Tags[k]),
		})
	}

	capabilities := make([]types.Capability, len(input.Capabilities))
	for i, c := range input.Capabilities {
		capabilities[i] = types.Capability(c)
	}

	output, err := cf.client.CreateChangeSet(ctx, &cloudformation.CreateChangeSetInput{
		StackName:     aws.String(input.StackName),
		ChangeSetName: aws.String(changeSetName),
		ChangeSetType: changeSetType,
		TemplateBody:  aws.String(input.TemplateBody),
		Capabilities:  capabilities,
		Tags:          tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create changeset for stack %s: %w", input.StackName, err)
	}

	changeSetID := aws.ToString(output.Id)
	logrus.WithFields(logrus.Fields{
		"stack":     input.StackName,
		"changeset": changeSetID,
		"type":      string(changeSetType),
	}).Debug("created changeset")

	if err := cf.waitForChangeSet(ctx, changeSetID); err != nil {
		_ = cf.DeleteChangeSet(ctx, changeSetID)
		return nil, err
	}

	info, err := cf.describeChangeSet(ctx, changeSetID)
	if err != nil {
		_ = cf.DeleteChangeSet(ctx, changeSetID)
		return nil, err
	}
	info.ChangeSetType = string(changeSetType)

	return info, nil
}

// waitForChangeSet waits for a changeset to reach a terminal state
func (cf *DefaultCloudFormationOperations) waitForChangeSet(ctx context.Context, changeSetID string) error {
	deadline := time.Now().Add(changeSetTimeout)

	for time.Now().Before(deadline) {
		output, err := cf.client.DescribeChangeSet(ctx, &cloudformation.DescribeChangeSetInput{
			ChangeSetName: aws.String(changeSetID),
		})
		if err != nil {
			return fmt.Errorf("failed to describe changeset while waiting: %w", err)
		}

		switch output.Status {
		case types.ChangeSetStatusCreateComplete:
			return nil
		case types.ChangeSetStatusFailed:
			reason := aws.ToString(output.StatusReason)
			if isNoChangesReason(reason) {
				return ErrNoChanges
			}
			if reason == "" {
				reason = "unknown reason"
			}
			return fmt.Errorf("changeset creation failed: %s", reason)
		case types.ChangeSetStatusCreatePending, types.ChangeSetStatusCreateInProgress:
		default:
			return fmt.Errorf("unexpected changeset status: %s", output.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cf.pollInterval):
		}
	}

	return fmt.Errorf("timeout waiting for changeset to be created")
}

func isNoChangesReason(reason string) bool {
	return strings.Contains(reason, "didn't contain changes") ||
		strings.Contains(reason, "No updates are to be performed")
}

// describeChangeSet collects every page of a changeset's resource changes
func (cf *DefaultCloudFormationOperations) describeChangeSet(ctx context.Context, changeSetID string) (*ChangeSetInfo, error) {
	info := &ChangeSetInfo{ChangeSetID: changeSetID}

	var nextToken *string
	for {
		output, err := cf.client.DescribeChangeSet(ctx, &cloudformation.DescribeChangeSetInput{
			ChangeSetName: aws.String(changeSetID),
			NextToken:     nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe changeset %s: %w", changeSetID, err)
		}

		info.Status = string(output.Status)
		for _, change := range output.Changes {
			if change.ResourceChange == nil {
				continue
			}
			info.Changes = append(info.Changes, convertResourceChange(change.ResourceChange))
		}

		if aws.ToString(output.NextToken) == "" {
			return info, nil
		}
		nextToken = output.NextToken
	}
}

func convertResourceChange(rc *types.ResourceChange) ResourceChange {
	change := ResourceChange{
		Action:       string(rc.Action),
		ResourceType: aws.ToString(rc.ResourceType),
		LogicalID:    aws.ToString(rc.LogicalResourceId),
		PhysicalID:   aws.ToString(rc.PhysicalResourceId),
		Replacement:  string(rc.Replacement),
	}

	for _, detail := range rc.Details {
		if detail.Target == nil {
			continue
		}
		description := string(detail.Target.Attribute)
		if name := aws.ToString(detail.Target.Name); name != "" {
			description += ": " + name
		}
		if detail.Target.RequiresRecreation != "" && detail.Target.RequiresRecreation != types.RequiresRecreationNever {
			description += fmt.Sprintf(" (recreation: %s)", detail.Target.RequiresRecreation)
		}
		change.Details = append(change.Details, description)
	}

	return change
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
