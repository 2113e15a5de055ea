/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/config"
	"github.com/orien/cistack/internal/model"
	"github.com/orien/cistack/internal/resolve"
	"github.com/sirupsen/logrus"
)

// Validator orchestrates configuration and template validation
type Validator interface {
	ValidateSingleStack(ctx context.Context, stackName, contextName string) error
	ValidateAllStacks(ctx context.Context, contextName string) error
}

// TemplateValidator implements the Validator interface
type TemplateValidator struct {
	clientFactory  aws.ClientFactory
	configProvider config.ConfigProvider
	resolver       resolve.Resolver
}

// NewTemplateValidator creates a new validator
func NewTemplateValidator(
	clientFactory aws.ClientFactory,
	configProvider config.ConfigProvider,
	resolver resolve.Resolver,
) *TemplateValidator {
	return &TemplateValidator{
		clientFactory:  clientFactory,
		configProvider: configProvider,
		resolver:       resolver,
	}
}

// ValidateSingleStack validates the configuration file and one stack's template
func (v *TemplateValidator) ValidateSingleStack(ctx context.Context, stackName, contextName string) error {
	if err := v.configProvider.Validate(); err != nil {
		return err
	}

	fmt.Printf("Validating template for stack '%s' in context '%s'...\n", stackName, contextName)

	stack, err := v.resolver.ResolveStack(ctx, contextName, stackName)
	if err != nil {
		return fmt.Errorf("failed to resolve stack %s: %w", stackName, err)
	}

	result := v.validateStack(ctx, stack)
	for _, warning := range result.Warnings {
		fmt.Printf("  Warning: %s\n", warning)
	}
	if !result.Valid {
		fmt.Printf("\n✗ Validation failed for stack '%s'\n", stackName)
		fmt.Printf("  Error: %s\n", result.Error)
		return errors.New(result.Error)
	}

	fmt.Printf("\n✓ Template is valid for stack '%s'\n", stackName)
	return nil
}

// ValidateAllStacks validates the configuration file and every stack in a context
func (v *TemplateValidator) ValidateAllStacks(ctx context.Context, contextName string) error {
	if err := v.configProvider.Validate(); err != nil {
		return err
	}

	stackNames, err := v.configProvider.ListStacks(contextName)
	if err != nil {
		return fmt.Errorf("failed to list stacks for context %s: %w", contextName, err)
	}

	if len(stackNames) == 0 {
		fmt.Printf("No stacks defined in context '%s'\n", contextName)
		return nil
	}

	fmt.Printf("Validating %d stack(s) in context '%s'...\n\n", len(stackNames), contextName)

	results := make([]ValidationResult, 0, len(stackNames))
	hasErrors := false

	for _, stackName := range stackNames {
		fmt.Printf("→ Validating '%s'... ", stackName)

		stack, err := v.resolver.ResolveStack(ctx, contextName, stackName)
		if err != nil {
			fmt.Printf("✗\n")
			results = append(results, ValidationResult{
				StackName: stackName,
				Valid:     false,
				Error:     fmt.Sprintf("failed to resolve stack: %v", err),
			})
			hasErrors = true
			continue
		}

		result := v.validateStack(ctx, stack)
		if result.Valid {
			fmt.Printf("✓\n")
		} else {
			fmt.Printf("✗\n")
			hasErrors = true
		}
		results = append(results, result)
	}

	v.printSummary(results)

	if hasErrors {
		return fmt.Errorf("validation failed for one or more stacks")
	}

	return nil
}

// validateStack checks the template with CloudFormation, then checks that
// the build image is published. A missing image is only a warning.
func (v *TemplateValidator) validateStack(ctx context.Context, stack *model.Stack) ValidationResult {
	result := ValidationResult{StackName: stack.Name, Valid: true}

	cfnOps, err := v.clientFactory.GetCloudFormationOperations(ctx, stack.Region())
	if err != nil {
		result.Valid = false
		result.Error = fmt.Sprintf("failed to get CloudFormation operations: %v", err)
		return result
	}

	if err := cfnOps.ValidateTemplate(ctx, stack.TemplateBody); err != nil {
		result.Valid = false
		result.Error = fmt.Sprintf("template validation failed: %v", err)
		return result
	}

	if warning := v.checkImage(ctx, stack); warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	return result
}

// checkImage returns a warning when the build image cannot be confirmed in ECR
func (v *TemplateValidator) checkImage(ctx context.Context, stack *model.Stack) string {
	if stack.Image == nil {
		return ""
	}

	ecrOps, err := v.clientFactory.GetECROperations(ctx, stack.Region())
	if err != nil {
		logrus.WithError(err).WithField("stack", stack.Name).Debug("skipping image check")
		return fmt.Sprintf("could not check image %s: %v", stack.Image, err)
	}

	exists, err := ecrOps.ImageExists(ctx, aws.ImageExistsInput{
		RegistryID:     stack.Image.RegistryID,
		RepositoryName: stack.Image.Repository,
		ImageTag:       stack.Image.Tag,
	})
	switch {
	case errors.Is(err, aws.ErrRepositoryNotFound):
		return fmt.Sprintf("ECR repository %s does not exist", stack.Image.Repository)
	case err != nil:
		return fmt.Sprintf("could not check image %s: %v", stack.Image, err)
	case !exists:
		return fmt.Sprintf("image %s is not published; builds will fail until it is pushed", stack.Image)
	}
	return ""
}

// printSummary prints validation results summary
func (v *TemplateValidator) printSummary(results []ValidationResult) {
	fmt.Println("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("Validation Summary")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	validCount := 0
	invalidCount := 0

	for _, result := range results {
		if result.Valid {
			validCount++
			fmt.Printf("✓ %s\n", result.StackName)
		} else {
			invalidCount++
			fmt.Printf("✗ %s\n", result.StackName)
			fmt.Printf("  Error: %s\n", result.Error)
		}
		for _, warning := range result.Warnings {
			fmt.Printf("  Warning: %s\n", warning)
		}
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Total:   %d\n", len(results))
	fmt.Printf("Valid:   %d\n", validCount)
	fmt.Printf("Invalid: %d\n", invalidCount)

	if invalidCount == 0 {
		fmt.Println("\n✓ All templates are valid")
	} else {
		fmt.Println("\n✗ Some templates failed validation")
	}
}

// ValidationResult contains the outcome of a single stack validation
type ValidationResult struct {
	StackName string
	Valid     bool
	Error     string
	Warnings  []string
}
