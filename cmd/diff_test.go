/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"
	"testing"

	"github.com/orien/cistack/internal/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withMockDiffer(t *testing.T) *diff.MockDiffer {
	t.Helper()
	mockDiffer := &diff.MockDiffer{}
	oldDiffer := differ
	SetDiffer(mockDiffer)
	t.Cleanup(func() { SetDiffer(oldDiffer) })
	return mockDiffer
}

func TestDiffCommand_Flags(t *testing.T) {
	diffCmd := findCommand(rootCmd, "diff")
	require.NotNil(t, diffCmd)

	assert.NotNil(t, diffCmd.Flags().Lookup("template"))
	assert.NotNil(t, diffCmd.Flags().Lookup("tags"))

	formatFlag := diffCmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestDiffCommand_NoChanges(t *testing.T) {
	configPath := writeTestConfig(t, testConfig)
	mockDiffer := withMockDiffer(t)
	mockDiffer.On("DiffStack", mock.Anything, stackNamed("aws-lc-ci-linux"), diff.Options{Format: "text"}).
		Return(&diff.Result{StackName: "aws-lc-ci-linux", Context: "dev", StackExists: true}, nil)

	output, err := executeCommand(t, "diff", "dev", "aws-lc-ci-linux", "--config", configPath)

	require.NoError(t, err)
	assert.Contains(t, output, "No changes detected for stack aws-lc-ci-linux in context dev")
	mockDiffer.AssertExpectations(t)
}

func TestDiffCommand_AllStacksWithChanges(t *testing.T) {
	configPath := writeTestConfig(t, testConfig)
	mockDiffer := withMockDiffer(t)
	options := diff.Options{TemplateOnly: true, Format: "text"}
	mockDiffer.On("DiffStack", mock.Anything, stackNamed("aws-lc-ci-linux"), options).
		Return(&diff.Result{StackName: "aws-lc-ci-linux", Context: "dev"}, nil)
	mockDiffer.On("DiffStack", mock.Anything, stackNamed("aws-lc-ci-windows"), options).
		Return(&diff.Result{StackName: "aws-lc-ci-windows", Context: "dev", StackExists: true}, nil)

	output, err := executeCommand(t, "diff", "dev", "--template", "--config", configPath)

	require.NoError(t, err)
	assert.Contains(t, output, "Changes detected for stack aws-lc-ci-linux in context dev")
	assert.Contains(t, output, "No changes detected for stack aws-lc-ci-windows in context dev")
	mockDiffer.AssertExpectations(t)
}

func TestDiffCommand_JSONFormat(t *testing.T) {
	configPath := writeTestConfig(t, testConfig)
	mockDiffer := withMockDiffer(t)
	mockDiffer.On("DiffStack", mock.Anything, stackNamed("aws-lc-ci-linux"), diff.Options{Format: "json"}).
		Return(&diff.Result{StackName: "aws-lc-ci-linux", Context: "dev", StackExists: true, Options: diff.Options{Format: "json"}}, nil)

	output, err := executeCommand(t, "diff", "dev", "aws-lc-ci-linux", "--format", "json", "--config", configPath)

	require.NoError(t, err)
	assert.Contains(t, output, `"stackName"`)
	assert.NotContains(t, output, "No changes detected")
}

func TestDiffCommand_InvalidFormat(t *testing.T) {
	mockDiffer := withMockDiffer(t)

	_, err := executeCommand(t, "diff", "dev", "--format", "xml")

	assert.EqualError(t, err, "--format must be 'text' or 'json'")
	mockDiffer.AssertNotCalled(t, "DiffStack", mock.Anything, mock.Anything, mock.Anything)
}

func TestDiffCommand_ConflictingFilters(t *testing.T) {
	withMockDiffer(t)

	_, err := executeCommand(t, "diff", "dev", "--template", "--tags")

	assert.EqualError(t, err, "--template and --tags cannot be used together")
}

func TestDiffCommand_DiffFails(t *testing.T) {
	configPath := writeTestConfig(t, testConfig)
	mockDiffer := withMockDiffer(t)
	mockDiffer.On("DiffStack", mock.Anything, stackNamed("aws-lc-ci-linux"), diff.Options{Format: "text"}).
		Return(nil, errors.New("failed to describe stack"))

	_, err := executeCommand(t, "diff", "dev", "aws-lc-ci-linux", "--config", configPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to diff stack aws-lc-ci-linux")
}
