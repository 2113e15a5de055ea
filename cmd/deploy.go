/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/orien/cistack/internal/deploy"
	"github.com/spf13/cobra"
)

var (
	// deployer can be injected for testing
	deployer deploy.Deployer
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy <context> [stack-name]",
	Short: "Deploy build stacks",
	Long: `Deploy build stacks with integrated change preview and confirmation.

Each stack is synthesized and submitted to CloudFormation as a change set. The
resources the change set would add, modify or remove are shown, including any
replacement warnings, and you are asked to confirm before the change set is
executed. Declining discards the change set and leaves the stack untouched.

If no stack name is provided, every stack in the context is deployed.

Examples:
  cistack deploy dev                        # Deploy all stacks with confirmation prompts
  cistack deploy prod aws-lc-ci-windows     # Deploy a single stack
  cistack deploy prod --yes                 # Deploy without prompting`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextName := args[0]

		d, err := getDeployer(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) > 1 {
			stackName := args[1]
			if err := d.DeploySingleStack(cmd.Context(), stackName, contextName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully deployed stack %s in context %s\n", stackName, contextName)
			return nil
		}
		return d.DeployAllStacks(cmd.Context(), contextName)
	},
}

// getDeployer returns the deployer instance, creating a default one if none is set
func getDeployer(ctx context.Context) (deploy.Deployer, error) {
	if deployer != nil {
		return deployer, nil
	}

	factory, err := getClientFactory(ctx)
	if err != nil {
		return nil, err
	}
	_, resolver := createResolver()
	return deploy.NewStackDeployer(factory, resolver), nil
}

// SetDeployer allows injection of a deployer (for testing)
func SetDeployer(d deploy.Deployer) {
	deployer = d
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
