/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const deployedTemplate = `{
  "AWSTemplateFormatVersion": "2010-09-09",
  "Resources": {
    "AwsLcCiRole": {"Type": "AWS::IAM::Role"},
    "AwsLcCi": {"Type": "AWS::CodeBuild::Project"}
  }
}`

func setupDescriber(t *testing.T) (Describer, *aws.MockCloudFormationOperations) {
	t.Helper()
	ops := &aws.MockCloudFormationOperations{}
	factory := &aws.MockClientFactory{}
	factory.On("GetCloudFormationOperations", mock.Anything, "eu-west-1").Return(ops, nil)
	t.Cleanup(func() { ops.AssertExpectations(t) })
	return NewStackDescriber(factory), ops
}

func TestDescribeStack(t *testing.T) {
	describer, ops := setupDescriber(t)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ops.On("DescribeStack", mock.Anything, "aws-lc-ci").Return(&aws.StackInfo{
		Stack: aws.Stack{
			Name:        "aws-lc-ci",
			Status:      aws.StackStatusUpdateComplete,
			CreatedTime: &created,
			Description: "pull request builds",
			Outputs:     map[string]string{"ProjectName": "aws-lc-ci"},
			Tags:        map[string]string{"team": "crypto"},
		},
		Template: deployedTemplate,
	}, nil)

	stack := model.NewTestStack("aws-lc-ci", model.NewTestContext("prod", "eu-west-1", "123456789012"))
	desc, err := describer.DescribeStack(context.Background(), stack)
	require.NoError(t, err)

	assert.Equal(t, "aws-lc-ci", desc.Name)
	assert.Equal(t, "UPDATE_COMPLETE", desc.Status)
	assert.Equal(t, created, desc.CreatedTime)
	assert.Nil(t, desc.UpdatedTime)
	assert.Equal(t, "prod", desc.Context)
	assert.Equal(t, "eu-west-1", desc.Region)
	assert.Equal(t, map[string]string{"ProjectName": "aws-lc-ci"}, desc.Outputs)
	assert.Equal(t, []Resource{
		{LogicalID: "AwsLcCi", Type: "AWS::CodeBuild::Project"},
		{LogicalID: "AwsLcCiRole", Type: "AWS::IAM::Role"},
	}, desc.Resources)
}

func TestDescribeStack_MissingFieldsAreEmpty(t *testing.T) {
	describer, ops := setupDescriber(t)
	ops.On("DescribeStack", mock.Anything, "aws-lc-ci").Return(&aws.StackInfo{
		Stack:    aws.Stack{Name: "aws-lc-ci", Status: aws.StackStatusCreateComplete},
		Template: "{not a template",
	}, nil)

	stack := model.NewTestStack("aws-lc-ci", model.NewTestContext("prod", "eu-west-1", "123456789012"))
	desc, err := describer.DescribeStack(context.Background(), stack)
	require.NoError(t, err)

	assert.True(t, desc.CreatedTime.IsZero())
	assert.NotNil(t, desc.Outputs)
	assert.NotNil(t, desc.Tags)
	assert.Empty(t, desc.Resources)
}

func TestDescribeStack_Errors(t *testing.T) {
	t.Run("describe", func(t *testing.T) {
		describer, ops := setupDescriber(t)
		ops.On("DescribeStack", mock.Anything, "aws-lc-ci").Return(nil, errors.New("stack aws-lc-ci does not exist"))

		stack := model.NewTestStack("aws-lc-ci", model.NewTestContext("prod", "eu-west-1", "123456789012"))
		_, err := describer.DescribeStack(context.Background(), stack)
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("client factory", func(t *testing.T) {
		factory := &aws.MockClientFactory{}
		factory.On("GetCloudFormationOperations", mock.Anything, "us-east-1").Return(nil, errors.New("no credentials"))

		_, err := NewStackDescriber(factory).DescribeStack(context.Background(), model.NewTestStack("aws-lc-ci", model.NewDefaultTestContext()))
		assert.ErrorContains(t, err, "failed to get CloudFormation operations for region us-east-1")
	})
}
