/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/orien/cistack/internal/diff"
	"github.com/orien/cistack/internal/model"
	"github.com/spf13/cobra"
)

var (
	diffTemplateOnly bool
	diffTagsOnly     bool
	diffFormat       string
	// differ can be injected for testing
	differ diff.Differ
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <context> [stack-name]",
	Short: "Show differences between deployed stacks and local configuration",
	Long: `Compare deployed build stacks with the templates cistack would deploy now.

This command shows what changes would be made if you ran 'cistack deploy' with
the current configuration:

• Template differences (resources and sections added, modified or removed)
• Tag differences (current vs. resolved tags)
• Resource-level changes from a CloudFormation change set preview

If no stack name is provided, every stack in the context is compared.

Examples:
  cistack diff prod                                # Show all changes
  cistack diff prod aws-lc-ci-linux --template     # Template diff only
  cistack diff dev aws-lc-ci-linux --tags          # Tag diff only
  cistack diff dev --format json                   # JSON output`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextName := args[0]

		if diffFormat != "text" && diffFormat != "json" {
			return errors.New("--format must be 'text' or 'json'")
		}
		if diffTemplateOnly && diffTagsOnly {
			return errors.New("--template and --tags cannot be used together")
		}

		var stackNames []string
		if len(args) > 1 {
			stackNames = args[1:]
		}

		_, resolver := createResolver()
		stacks, err := resolver.ResolveStacks(cmd.Context(), contextName, stackNames)
		if err != nil {
			return fmt.Errorf("failed to resolve stacks: %w", err)
		}

		d, err := getDiffer(cmd.Context())
		if err != nil {
			return err
		}

		options := diff.Options{
			TemplateOnly: diffTemplateOnly,
			TagsOnly:     diffTagsOnly,
			Format:       diffFormat,
		}
		for _, stack := range stacks {
			if err := diffStack(cmd, d, stack, options); err != nil {
				return err
			}
		}
		return nil
	},
}

func diffStack(cmd *cobra.Command, d diff.Differ, stack *model.Stack, options diff.Options) error {
	result, err := d.DiffStack(cmd.Context(), stack, options)
	if err != nil {
		return fmt.Errorf("failed to diff stack %s: %w", stack.Name, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, result.String())
	if options.Format == "json" {
		fmt.Fprintln(out)
		return nil
	}

	if result.HasChanges() {
		fmt.Fprintf(out, "\nChanges detected for stack %s in context %s\n", stack.Name, result.Context)
	} else {
		fmt.Fprintf(out, "\nNo changes detected for stack %s in context %s\n", stack.Name, result.Context)
	}
	return nil
}

// getDiffer returns the differ instance, creating a default one if none is set
func getDiffer(ctx context.Context) (diff.Differ, error) {
	if differ != nil {
		return differ, nil
	}

	factory, err := getClientFactory(ctx)
	if err != nil {
		return nil, err
	}
	return diff.NewDefaultDiffer(factory), nil
}

// SetDiffer allows injection of a differ (for testing)
func SetDiffer(d diff.Differ) {
	differ = d
}

func init() {
	rootCmd.AddCommand(diffCmd)

	// Optional flags for filtering diff output
	diffCmd.Flags().BoolVar(&diffTemplateOnly, "template", false, "show only template differences")
	diffCmd.Flags().BoolVar(&diffTagsOnly, "tags", false, "show only tag differences")

	diffCmd.Flags().StringVar(&diffFormat, "format", "text", "output format: text, json")
}
