/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"

	"github.com/orien/cistack/internal/delete"
	"github.com/spf13/cobra"
)

var (
	// deleter can be injected for testing
	deleter delete.Deleter
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <context> [stack-name]",
	Short: "Delete build stacks",
	Long: `Delete build stacks and the CodeBuild projects and roles they hold.

The stack to be removed is shown and you are asked to confirm before anything
is deleted. Stacks that do not exist are skipped. The ECR repository holding
the build image is never deleted; it is referenced, not owned.

If no stack name is provided, every stack in the context is deleted.

Examples:
  cistack delete dev                     # Delete all stacks in dev
  cistack delete dev aws-lc-ci-linux     # Delete a single stack`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextName := args[0]

		d, err := getDeleter(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) > 1 {
			return d.DeleteSingleStack(cmd.Context(), args[1], contextName)
		}
		return d.DeleteAllStacks(cmd.Context(), contextName)
	},
}

// getDeleter returns the deleter instance, creating a default one if none is set
func getDeleter(ctx context.Context) (delete.Deleter, error) {
	if deleter != nil {
		return deleter, nil
	}

	factory, err := getClientFactory(ctx)
	if err != nil {
		return nil, err
	}
	provider, resolver := createResolver()
	return delete.NewStackDeleter(factory, provider, resolver), nil
}

// SetDeleter allows injection of a deleter (for testing)
func SetDeleter(d delete.Deleter) {
	deleter = d
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
