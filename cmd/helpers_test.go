/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/orien/cistack/internal/config/file"
	"github.com/orien/cistack/internal/prompt"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testConfig = `
project: aws-lc-ci
region: us-west-2
contexts:
  dev:
    account: "123456789012"
  prod:
    account: "210987654321"
    region: us-east-1
stacks:
  aws-lc-ci-linux:
    ecr_repo: aws-lc-docker-images-linux-x86
    image_tag: ubuntu-20.04_latest
    build_spec: tests/ci/codebuild/linux-x86/omnibus.yml
  aws-lc-ci-windows:
    ecr_repo: aws-lc-docker-images-windows-x86
    image_tag: vs2015_latest
    build_spec: tests/ci/codebuild/windows-x86/omnibus.yml
    windows: true
    privileged: true
`

// writeTestConfig writes a configuration file into a temporary directory and returns its path
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), file.DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCommand runs the root command with fresh flag values and returns its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	oldPrompter := prompt.GetDefaultPrompter()
	t.Cleanup(func() {
		prompt.SetPrompter(oldPrompter)
		resetFlags()
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	configFile = file.DefaultFilename
	verbose = false
	assumeYes = false
	diffTemplateOnly = false
	diffTagsOnly = false
	diffFormat = "text"
	synthFormat = "json"
}

// findCommand finds a subcommand by name
func findCommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
