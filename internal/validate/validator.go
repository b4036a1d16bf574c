/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package validate

import (
	"context"
	"fmt"

	"github.com/worx/groundwork/internal/aws"
	"github.com/worx/groundwork/internal/registry"
	"github.com/worx/groundwork/internal/resolve"
)

// Validator checks stack templates against the CloudFormation API
type Validator interface {
	ValidateStack(ctx context.Context, key string) error
	ValidateAll(ctx context.Context, scope string) error
}

// TemplateValidator implements the Validator interface
type TemplateValidator struct {
	clientFactory aws.ClientFactory
	registry      *registry.Registry
	resolver      resolve.Resolver
}

// NewTemplateValidator creates a new validator
func NewTemplateValidator(clientFactory aws.ClientFactory, reg *registry.Registry, resolver resolve.Resolver) *TemplateValidator {
	return &TemplateValidator{
		clientFactory: clientFactory,
		registry:      reg,
		resolver:      resolver,
	}
}

// ValidateStack validates a single stack's template
func (v *TemplateValidator) ValidateStack(ctx context.Context, key string) error {
	fmt.Printf("Validating template for stack %s in environment %s...\n", key, v.registry.Environment().Name)

	stack, err := v.resolver.ResolveStack(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to resolve stack %s: %w", key, err)
	}

	if err := v.validateTemplate(ctx, stack.Environment.Region, stack.TemplateBody); err != nil {
		fmt.Printf("\n✗ Validation failed for stack %s\n", key)
		fmt.Printf("  Error: %v\n", err)
		return err
	}

	fmt.Printf("\n✓ Template is valid for stack %s\n", key)
	return nil
}

// ValidateAll validates the templates of every stack in scope
func (v *TemplateValidator) ValidateAll(ctx context.Context, scope string) error {
	keys := v.registry.Keys(scope)
	if len(keys) == 0 {
		fmt.Printf("No stacks defined in environment %s\n", v.registry.Environment().Name)
		return nil
	}

	fmt.Printf("Validating %d stack(s) in environment %s...\n\n", len(keys), v.registry.Environment().Name)

	results := make([]ValidationResult, 0, len(keys))
	hasErrors := false

	for _, key := range keys {
		fmt.Printf("→ Validating %s... ", key)

		stack, err := v.resolver.ResolveStack(ctx, key)
		if err != nil {
			fmt.Printf("✗\n")
			results = append(results, ValidationResult{
				StackKey: key,
				Valid:    false,
				Error:    fmt.Sprintf("failed to resolve stack: %v", err),
			})
			hasErrors = true
			continue
		}

		if err := v.validateTemplate(ctx, stack.Environment.Region, stack.TemplateBody); err != nil {
			fmt.Printf("✗\n")
			results = append(results, ValidationResult{
				StackKey: key,
				Valid:    false,
				Error:    err.Error(),
			})
			hasErrors = true
		} else {
			fmt.Printf("✓\n")
			results = append(results, ValidationResult{
				StackKey: key,
				Valid:    true,
			})
		}
	}

	v.printSummary(results)

	if hasErrors {
		return fmt.Errorf("validation failed for one or more stacks")
	}

	return nil
}

// validateTemplate validates a template body using the CloudFormation API
func (v *TemplateValidator) validateTemplate(ctx context.Context, region, templateBody string) error {
	cfnOps, err := v.clientFactory.GetCloudFormationOperations(ctx, region)
	if err != nil {
		return fmt.Errorf("failed to get CloudFormation operations: %w", err)
	}

	if err := cfnOps.ValidateTemplate(ctx, templateBody); err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}

	return nil
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
			fmt.Printf("✓ %s\n", result.StackKey)
		} else {
			invalidCount++
			fmt.Printf("✗ %s\n", result.StackKey)
			fmt.Printf("  Error: %s\n", result.Error)
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
	StackKey string
	Valid    bool
	Error    string
}
