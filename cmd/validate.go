/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"

	"github.com/orien/cistack/internal/validate"
	"github.com/spf13/cobra"
)

var (
	// validator can be injected for testing
	validator validate.Validator
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <context> [stack-name]",
	Short: "Validate configuration and synthesized templates",
	Long: `Validate the configuration file against its schema, then submit each
synthesized template to CloudFormation for validation.

The build image of each stack is also looked up in ECR. A missing repository or
an unpublished tag is reported as a warning; the template is still valid but
builds will fail until the image is pushed.

If no stack name is provided, every stack in the context is validated.

Examples:
  cistack validate dev
  cistack validate prod aws-lc-ci-linux`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextName := args[0]

		v, err := getValidator(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) > 1 {
			return v.ValidateSingleStack(cmd.Context(), args[1], contextName)
		}
		return v.ValidateAllStacks(cmd.Context(), contextName)
	},
}

// getValidator returns the validator instance, creating a default one if none is set
func getValidator(ctx context.Context) (validate.Validator, error) {
	if validator != nil {
		return validator, nil
	}

	factory, err := getClientFactory(ctx)
	if err != nil {
		return nil, err
	}
	provider, resolver := createResolver()
	return validate.NewTemplateValidator(factory, provider, resolver), nil
}

// SetValidator allows injection of a validator (for testing)
func SetValidator(v validate.Validator) {
	validator = v
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
