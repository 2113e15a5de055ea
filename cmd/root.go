/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"github.com/orien/cistack/internal/config/file"
	"github.com/orien/cistack/internal/prompt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
	assumeYes  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cistack",
	Short: "Declare and deploy GitHub pull request builds on AWS CodeBuild",
	Long: `cistack turns a short YAML description of CI builds into CloudFormation
stacks, one per build, each holding:

• A CodeBuild project triggered by GitHub pull request webhooks
• A build image from an ECR repository (Linux or Windows)
• An execution role allowed to pull that image

Stacks are synthesized locally and deployed through CloudFormation change sets,
so every deployment can be previewed before it is applied.

The GitHub repository is read from GITHUB_REPO_OWNER and GITHUB_REPO, and
defaults to awslabs/aws-lc.`,
	SilenceUsage:      true,
	PersistentPreRunE: configureRun,
}

// RootCommand returns the root of the command tree
func RootCommand() *cobra.Command {
	return rootCmd
}

// configureRun applies the global flags before any command runs
func configureRun(cmd *cobra.Command, args []string) error {
	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	if assumeYes {
		prompt.SetPrompter(prompt.AutoApprove{})
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", file.DefaultFilename, "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "apply changes without asking for confirmation")
}
