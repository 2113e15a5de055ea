/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/orien/cistack/internal/synth"
	"github.com/spf13/cobra"
)

var (
	synthOutputDir string
	synthFormat    string
)

// synthCmd represents the synth command
var synthCmd = &cobra.Command{
	Use:   "synth <context> [stack-name...]",
	Short: "Synthesize CloudFormation templates",
	Long: `Synthesize the CloudFormation template of each build stack without contacting AWS.

Templates are written to the output directory as <stack>.template.json (or
.yaml) together with a manifest.json listing every stack, its context and its
region. Files are replaced atomically, so a failed run never leaves a partly
written template behind.

If no stack name is provided, every stack in the context is synthesized.

Examples:
  cistack synth prod                          # Synthesize all stacks
  cistack synth prod aws-lc-ci-linux          # Synthesize one stack
  cistack synth dev -o out --format yaml      # YAML templates in ./out`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		synthesizer, err := synth.NewSynthesizer(synthFormat)
		if err != nil {
			return err
		}

		var stackNames []string
		if len(args) > 1 {
			stackNames = args[1:]
		}

		_, resolver := createResolver()
		stacks, err := resolver.ResolveStacks(cmd.Context(), args[0], stackNames)
		if err != nil {
			return err
		}

		manifest, err := synthesizer.Write(synthOutputDir, stacks)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(manifest.Stacks))
		for name := range manifest.Stacks {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			fmt.Fprintf(out, "%s -> %s\n", name, filepath.Join(synthOutputDir, manifest.Stacks[name].Template))
		}
		fmt.Fprintf(out, "Synthesized %d stack(s) into %s\n", len(names), synthOutputDir)
		return nil
	},
}

func init() {
	synthCmd.Flags().StringVarP(&synthOutputDir, "output", "o", synth.DefaultOutputDir, "output directory")
	synthCmd.Flags().StringVar(&synthFormat, "format", "json", "template format: json or yaml")
	rootCmd.AddCommand(synthCmd)
}
