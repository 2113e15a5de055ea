/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand_Contexts(t *testing.T) {
	configPath := writeTestConfig(t, testConfig)

	output, err := executeCommand(t, "list", "--config", configPath)
	require.NoError(t, err)

	assert.Equal(t, "dev\nprod\n", output)
}

func TestListCommand_Stacks(t *testing.T) {
	configPath := writeTestConfig(t, testConfig)

	output, err := executeCommand(t, "list", "dev", "--config", configPath)
	require.NoError(t, err)

	assert.Equal(t, "aws-lc-ci-linux\naws-lc-ci-windows\n", output)
}

func TestListCommand_MissingConfig(t *testing.T) {
	_, err := executeCommand(t, "list", "--config", "does-not-exist.yaml")
	assert.Error(t, err)
}
