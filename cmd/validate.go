/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/worx/groundwork/internal/resolve"
	"github.com/worx/groundwork/internal/validate"
)

var (
	// validator can be injected for testing
	validator validate.Validator
)

// SetValidator allows injection of a validator (for testing)
func SetValidator(v validate.Validator) {
	validator = v
}

// getValidator returns the validator instance, creating a default one wired
// to the configured environment if none has been injected
func getValidator(cmd *cobra.Command) (validate.Validator, error) {
	if validator != nil {
		return validator, nil
	}

	reg, err := loadRegistry(cmd)
	if err != nil {
		return nil, err
	}

	clientFactory, err := buildClientFactory(cmd, reg)
	if err != nil {
		return nil, err
	}

	return validate.NewTemplateValidator(clientFactory, reg, resolve.NewStackResolver(reg)), nil
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [stack-key]",
	Short: "Validate stack templates against CloudFormation",
	Long: `Validate the CloudFormation templates of the target environment.

With a stack key, only that stack's template is validated. Without arguments,
every stack in scope is validated and a summary is printed. Validation is
read-only and safe to run at any time.

Examples:
  groundwork validate -e dev              # Validate all templates
  groundwork validate vpc -e dev          # Validate a single template
  groundwork validate -e prod --scope foundation`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := getValidator(cmd)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			return v.ValidateStack(cmd.Context(), args[0])
		}

		scope, err := cmd.Flags().GetString("scope")
		if err != nil {
			return err
		}
		return v.ValidateAll(cmd.Context(), scope)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
