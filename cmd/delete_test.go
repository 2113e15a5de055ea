/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"
	"testing"

	"github.com/orien/cistack/internal/delete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withMockDeleter(t *testing.T) *delete.MockDeleter {
	t.Helper()
	mockDeleter := &delete.MockDeleter{}
	oldDeleter := deleter
	SetDeleter(mockDeleter)
	t.Cleanup(func() { SetDeleter(oldDeleter) })
	return mockDeleter
}

func TestDeleteCommand_Exists(t *testing.T) {
	deleteCmd := findCommand(rootCmd, "delete")

	require.NotNil(t, deleteCmd, "delete command should be registered")
	assert.Equal(t, "delete <context> [stack-name]", deleteCmd.Use)
}

func TestDeleteCommand_RequiresAtLeastOneArg(t *testing.T) {
	mockDeleter := withMockDeleter(t)

	_, err := executeCommand(t, "delete")

	assert.Error(t, err)
	mockDeleter.AssertNotCalled(t, "DeleteAllStacks", mock.Anything, mock.Anything)
}

func TestDeleteCommand_DeleteSingleStack(t *testing.T) {
	mockDeleter := withMockDeleter(t)
	mockDeleter.On("DeleteSingleStack", mock.Anything, "aws-lc-ci-linux", "dev").Return(nil)

	_, err := executeCommand(t, "delete", "dev", "aws-lc-ci-linux")

	require.NoError(t, err)
	mockDeleter.AssertExpectations(t)
}

func TestDeleteCommand_DeleteAllStacksInContext(t *testing.T) {
	mockDeleter := withMockDeleter(t)
	mockDeleter.On("DeleteAllStacks", mock.Anything, "dev").Return(nil)

	_, err := executeCommand(t, "delete", "dev")

	require.NoError(t, err)
	mockDeleter.AssertExpectations(t)
}

func TestDeleteCommand_DeletionFails(t *testing.T) {
	mockDeleter := withMockDeleter(t)
	mockDeleter.On("DeleteSingleStack", mock.Anything, "aws-lc-ci-linux", "dev").
		Return(errors.New("stack is in DELETE_FAILED state"))

	_, err := executeCommand(t, "delete", "dev", "aws-lc-ci-linux")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DELETE_FAILED")
	mockDeleter.AssertExpectations(t)
}
