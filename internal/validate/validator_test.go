/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package validate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/config"
	"github.com/orien/cistack/internal/model"
	"github.com/orien/cistack/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	validator *TemplateValidator
	factory   *aws.MockClientFactory
	cfnOps    *aws.MockCloudFormationOperations
	ecrOps    *aws.MockECROperations
	config    *config.MockConfigProvider
	resolver  *resolve.MockResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		factory:  &aws.MockClientFactory{},
		cfnOps:   &aws.MockCloudFormationOperations{},
		ecrOps:   &aws.MockECROperations{},
		config:   &config.MockConfigProvider{},
		resolver: &resolve.MockResolver{},
	}
	f.factory.On("GetCloudFormationOperations", mock.Anything, "us-east-1").Return(f.cfnOps, nil).Maybe()
	f.factory.On("GetECROperations", mock.Anything, "us-east-1").Return(f.ecrOps, nil).Maybe()
	f.validator = NewTemplateValidator(f.factory, f.config, f.resolver)
	t.Cleanup(func() {
		f.cfnOps.AssertExpectations(t)
		f.ecrOps.AssertExpectations(t)
		f.config.AssertExpectations(t)
		f.resolver.AssertExpectations(t)
	})
	return f
}

func testStack(name string) *model.Stack {
	stack := model.NewTestStack(name, model.NewTestContext("development", "us-east-1", "123456789012"))
	stack.Image = &model.ImageReference{
		RegistryID: "123456789012",
		Repository: "aws-lc-docker-images-linux-x86",
		Tag:        "ubuntu-22.04_latest",
	}
	return stack
}

func imageInput() aws.ImageExistsInput {
	return aws.ImageExistsInput{
		RegistryID:     "123456789012",
		RepositoryName: "aws-lc-docker-images-linux-x86",
		ImageTag:       "ubuntu-22.04_latest",
	}
}

func TestTemplateValidator_ValidateSingleStack_Success(t *testing.T) {
	f := newFixture(t)
	stack := testStack("aws-lc-ci")
	f.config.On("Validate").Return(nil)
	f.resolver.On("ResolveStack", mock.Anything, "development", "aws-lc-ci").Return(stack, nil)
	f.cfnOps.On("ValidateTemplate", mock.Anything, stack.TemplateBody).Return(nil)
	f.ecrOps.On("ImageExists", mock.Anything, imageInput()).Return(true, nil)

	err := f.validator.ValidateSingleStack(context.Background(), "aws-lc-ci", "development")

	assert.NoError(t, err)
}

func TestTemplateValidator_ValidateSingleStack_InvalidTemplate(t *testing.T) {
	f := newFixture(t)
	stack := testStack("aws-lc-ci")
	f.config.On("Validate").Return(nil)
	f.resolver.On("ResolveStack", mock.Anything, "development", "aws-lc-ci").Return(stack, nil)
	f.cfnOps.On("ValidateTemplate", mock.Anything, stack.TemplateBody).Return(errors.New("Template format error"))

	err := f.validator.ValidateSingleStack(context.Background(), "aws-lc-ci", "development")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "template validation failed: Template format error")
	f.ecrOps.AssertNotCalled(t, "ImageExists", mock.Anything, mock.Anything)
}

func TestTemplateValidator_ValidateSingleStack_InvalidConfig(t *testing.T) {
	f := newFixture(t)
	f.config.On("Validate").Return(errors.New("config file 'cistack.yaml' is invalid: 1 schema violation(s)"))

	err := f.validator.ValidateSingleStack(context.Background(), "aws-lc-ci", "development")

	assert.ErrorContains(t, err, "schema violation")
	f.resolver.AssertNotCalled(t, "ResolveStack", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateValidator_ValidateSingleStack_ResolveFails(t *testing.T) {
	f := newFixture(t)
	f.config.On("Validate").Return(nil)
	f.resolver.On("ResolveStack", mock.Anything, "development", "missing").Return(nil, errors.New("stack 'missing' not found in configuration"))

	err := f.validator.ValidateSingleStack(context.Background(), "missing", "development")

	assert.ErrorContains(t, err, "failed to resolve stack missing")
}

func TestTemplateValidator_ImagePreflightOnlyWarns(t *testing.T) {
	tests := []struct {
		name    string
		exists  bool
		err     error
		warning string
	}{
		{name: "published", exists: true},
		{name: "not published", exists: false, warning: "image aws-lc-docker-images-linux-x86:ubuntu-22.04_latest is not published"},
		{name: "no repository", err: fmt.Errorf("%w: aws-lc-docker-images-linux-x86", aws.ErrRepositoryNotFound), warning: "ECR repository aws-lc-docker-images-linux-x86 does not exist"},
		{name: "access denied", err: errors.New("AccessDeniedException"), warning: "could not check image aws-lc-docker-images-linux-x86:ubuntu-22.04_latest: AccessDeniedException"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			stack := testStack("aws-lc-ci")
			f.cfnOps.On("ValidateTemplate", mock.Anything, stack.TemplateBody).Return(nil)
			f.ecrOps.On("ImageExists", mock.Anything, imageInput()).Return(tt.exists, tt.err)

			result := f.validator.validateStack(context.Background(), stack)

			assert.True(t, result.Valid)
			if tt.warning == "" {
				assert.Empty(t, result.Warnings)
			} else {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], tt.warning)
			}
		})
	}
}

func TestTemplateValidator_NoImageSkipsPreflight(t *testing.T) {
	f := newFixture(t)
	stack := testStack("aws-lc-ci")
	stack.Image = nil
	f.cfnOps.On("ValidateTemplate", mock.Anything, stack.TemplateBody).Return(nil)

	result := f.validator.validateStack(context.Background(), stack)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestTemplateValidator_ECRClientUnavailable(t *testing.T) {
	factory := &aws.MockClientFactory{}
	cfnOps := &aws.MockCloudFormationOperations{}
	factory.On("GetCloudFormationOperations", mock.Anything, "us-east-1").Return(cfnOps, nil)
	factory.On("GetECROperations", mock.Anything, "us-east-1").Return(nil, errors.New("no credentials"))
	cfnOps.On("ValidateTemplate", mock.Anything, mock.Anything).Return(nil)

	validator := NewTemplateValidator(factory, nil, nil)
	result := validator.validateStack(context.Background(), testStack("aws-lc-ci"))

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no credentials")
}

func TestTemplateValidator_ValidateAllStacks_Success(t *testing.T) {
	f := newFixture(t)
	f.config.On("Validate").Return(nil)
	f.config.On("ListStacks", "development").Return([]string{"aws-lc-ci-linux", "aws-lc-ci-windows"}, nil)
	for _, name := range []string{"aws-lc-ci-linux", "aws-lc-ci-windows"} {
		f.resolver.On("ResolveStack", mock.Anything, "development", name).Return(testStack(name), nil)
	}
	f.cfnOps.On("ValidateTemplate", mock.Anything, mock.Anything).Return(nil).Twice()
	f.ecrOps.On("ImageExists", mock.Anything, imageInput()).Return(false, nil).Twice()

	err := f.validator.ValidateAllStacks(context.Background(), "development")

	assert.NoError(t, err)
}

func TestTemplateValidator_ValidateAllStacks_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	f.config.On("Validate").Return(nil)
	f.config.On("ListStacks", "development").Return([]string{"broken", "invalid", "ok"}, nil)
	f.resolver.On("ResolveStack", mock.Anything, "development", "broken").Return(nil, errors.New("render failed"))

	invalid := testStack("invalid")
	invalid.TemplateBody = "invalid"
	f.resolver.On("ResolveStack", mock.Anything, "development", "invalid").Return(invalid, nil)
	f.cfnOps.On("ValidateTemplate", mock.Anything, "invalid").Return(errors.New("Template format error"))

	ok := testStack("ok")
	f.resolver.On("ResolveStack", mock.Anything, "development", "ok").Return(ok, nil)
	f.cfnOps.On("ValidateTemplate", mock.Anything, ok.TemplateBody).Return(nil)
	f.ecrOps.On("ImageExists", mock.Anything, imageInput()).Return(true, nil)

	err := f.validator.ValidateAllStacks(context.Background(), "development")

	assert.EqualError(t, err, "validation failed for one or more stacks")
}

func TestTemplateValidator_ValidateAllStacks_NoStacks(t *testing.T) {
	f := newFixture(t)
	f.config.On("Validate").Return(nil)
	f.config.On("ListStacks", "development").Return([]string{}, nil)

	assert.NoError(t, f.validator.ValidateAllStacks(context.Background(), "development"))
}

func TestTemplateValidator_ValidateAllStacks_ListFails(t *testing.T) {
	f := newFixture(t)
	f.config.On("Validate").Return(nil)
	f.config.On("ListStacks", "qa").Return(nil, errors.New("context 'qa' not found in configuration"))

	err := f.validator.ValidateAllStacks(context.Background(), "qa")

	assert.ErrorContains(t, err, "failed to list stacks for context qa")
}
