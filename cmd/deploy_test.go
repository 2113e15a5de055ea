/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"
	"testing"

	"github.com/orien/cistack/internal/deploy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withMockDeployer(t *testing.T) *deploy.MockDeployer {
	t.Helper()
	mockDeployer := &deploy.MockDeployer{}
	oldDeployer := deployer
	SetDeployer(mockDeployer)
	t.Cleanup(func() { SetDeployer(oldDeployer) })
	return mockDeployer
}

func TestDeployCommand_Exists(t *testing.T) {
	deployCmd := findCommand(rootCmd, "deploy")

	require.NotNil(t, deployCmd, "deploy command should be registered")
	assert.Equal(t, "deploy <context> [stack-name]", deployCmd.Use)
}

func TestDeployCommand_RequiresContext(t *testing.T) {
	mockDeployer := withMockDeployer(t)

	_, err := executeCommand(t, "deploy")

	assert.Error(t, err)
	mockDeployer.AssertNotCalled(t, "DeployAllStacks", mock.Anything, mock.Anything)
}

func TestDeployCommand_RejectsExtraArgs(t *testing.T) {
	withMockDeployer(t)

	_, err := executeCommand(t, "deploy", "dev", "a", "b")
	assert.Error(t, err)
}

func TestDeployCommand_DeploySingleStack(t *testing.T) {
	mockDeployer := withMockDeployer(t)
	mockDeployer.On("DeploySingleStack", mock.Anything, "aws-lc-ci-linux", "dev").Return(nil)

	output, err := executeCommand(t, "deploy", "dev", "aws-lc-ci-linux")

	require.NoError(t, err)
	assert.Contains(t, output, "Successfully deployed stack aws-lc-ci-linux in context dev")
	mockDeployer.AssertExpectations(t)
}

func TestDeployCommand_DeployAllStacks(t *testing.T) {
	mockDeployer := withMockDeployer(t)
	mockDeployer.On("DeployAllStacks", mock.Anything, "prod").Return(nil)

	_, err := executeCommand(t, "deploy", "prod")

	require.NoError(t, err)
	mockDeployer.AssertExpectations(t)
}

func TestDeployCommand_DeploymentFails(t *testing.T) {
	mockDeployer := withMockDeployer(t)
	mockDeployer.On("DeploySingleStack", mock.Anything, "aws-lc-ci-linux", "dev").
		Return(errors.New("error deploying stack aws-lc-ci-linux: access denied"))

	output, err := executeCommand(t, "deploy", "dev", "aws-lc-ci-linux")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.NotContains(t, output, "Successfully deployed")
	mockDeployer.AssertExpectations(t)
}
