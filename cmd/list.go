/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [context]",
	Short: "List contexts, or the stacks of a context",
	Long: `List the contexts defined in the configuration file. Given a context, list
the build stacks deployed to it instead.

Examples:
  cistack list          # List contexts
  cistack list prod     # List stacks in the prod context`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := createResolver()

		var (
			names []string
			err   error
		)
		if len(args) == 0 {
			names, err = provider.ListContexts()
		} else {
			names, err = provider.ListStacks(args[0])
		}
		if err != nil {
			return err
		}

		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
