/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/orien/cistack/internal/describe"
	"github.com/spf13/cobra"
)

var (
	// describer can be injected for testing
	describer describe.Describer
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <context> <stack-name>",
	Short: "Describe a deployed build stack",
	Long: `Show the status, resources, outputs and tags of a deployed build stack.

Examples:
  cistack describe prod aws-lc-ci-linux`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextName, stackName := args[0], args[1]
		ctx := cmd.Context()

		_, resolver := createResolver()
		stack, err := resolver.ResolveStack(ctx, contextName, stackName)
		if err != nil {
			return fmt.Errorf("failed to resolve stack %s: %w", stackName, err)
		}

		d, err := getDescriber(ctx)
		if err != nil {
			return err
		}

		description, err := d.DescribeStack(ctx, stack)
		if err != nil {
			return fmt.Errorf("failed to describe stack %s: %w", stackName, err)
		}

		fmt.Fprint(cmd.OutOrStdout(), describe.FormatStackDescription(description))
		return nil
	},
}

// getDescriber returns the describer instance, creating a default one if none is set
func getDescriber(ctx context.Context) (describe.Describer, error) {
	if describer != nil {
		return describer, nil
	}

	factory, err := getClientFactory(ctx)
	if err != nil {
		return nil, err
	}
	return describe.NewStackDescriber(factory), nil
}

// SetDescriber allows injection of a describer (for testing)
func SetDescriber(d describe.Describer) {
	describer = d
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
