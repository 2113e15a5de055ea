/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// CloudFormationClient defines the interface for CloudFormation client operations
// This allows for easier testing with mock implementations
type CloudFormationClient interface {
	DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	ValidateTemplate(ctx context.Context, params *cloudformation.ValidateTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ValidateTemplateOutput, error)
	GetTemplate(ctx context.Context, params *cloudformation.GetTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error)
	CreateChangeSet(ctx context.Context, params *cloudformation.CreateChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateChangeSetOutput, error)
	ExecuteChangeSet(ctx context.Context, params *cloudformation.ExecuteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ExecuteChangeSetOutput, error)
	DeleteChangeSet(ctx context.Context, params *cloudformation.DeleteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteChangeSetOutput, error)
	DescribeChangeSet(ctx context.Context, params *cloudformation.DescribeChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeChangeSetOutput, error)
	DescribeStackEvents(ctx context.Context, params *cloudformation.DescribeStackEventsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackEventsOutput, error)
}

// ECRClient defines the subset of the ECR API used to check build images
type ECRClient interface {
	DescribeImages(ctx context.Context, params *ecr.DescribeImagesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error)
}

// Ensure that the actual service clients implement our interfaces
var (
	_ CloudFormationClient = (*cloudformation.Client)(nil)
	_ ECRClient            = (*ecr.Client)(nil)
)

// Ensure that the default implementations satisfy their interfaces
var (
	_ CloudFormationOperations = (*DefaultCloudFormationOperations)(nil)
	_ ECROperations            = (*DefaultECROperations)(nil)
	_ ClientFactory            = (*DefaultClientFactory)(nil)
)

// CloudFormationOperations defines the interface for CloudFormation operations
type CloudFormationOperations interface {
	DeleteStack(ctx context.Context, input DeleteStackInput) error
	GetStack(ctx context.Context, stackName string) (*Stack, error)
	ValidateTemplate(ctx context.Context, templateBody string) error
	StackExists(ctx context.Context, stackName string) (bool, error)
	GetTemplate(ctx context.Context, stackName string) (string, error)
	DescribeStack(ctx context.Context, stackName string) (*StackInfo, error)
	ExecuteChangeSet(ctx context.Context, changeSetID string) error
	DeleteChangeSet(ctx context.Context, changeSetID string) error
	DescribeStackEvents(ctx context.Context, stackName string) ([]StackEvent, error)
	WaitForStackOperation(ctx context.Context, stackName string, startTime time.Time, eventCallback func(StackEvent)) error
	CreateChangeSetPreview(ctx context.Context, input DeployStackInput) (*ChangeSetInfo, error)
	CreateChangeSetForDeployment(ctx context.Context, input DeployStackInput) (*ChangeSetInfo, error)
}

// ECROperations defines the registry checks made before deploying a build stack
type ECROperations interface {
	ImageExists(ctx context.Context, input ImageExistsInput) (bool, error)
}

// ChangeSetInfo contains information from AWS CloudFormation changeset
type ChangeSetInfo struct {
	ChangeSetID   string
	ChangeSetType string // CREATE or UPDATE
	Status        string
	Changes       []ResourceChange
}

// Change set resource actions
const (
	ActionAdd    = "Add"
	ActionModify = "Modify"
	ActionRemove = "Remove"
)

// ResourceChange represents a change to a CloudFormation resource
type ResourceChange struct {
	Action       string
	ResourceType string
	LogicalID    string
	PhysicalID   string
	Replacement  string // True, False, or Conditional
	Details      []string
}
