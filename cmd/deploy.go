/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worx/groundwork/internal/orchestrate"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy <stack-key>",
	Short: "Deploy a single stack",
	Long: `Deploy one stack of the target environment.

The stack is created if it does not exist and updated through a changeset if
it does. A changeset that contains no changes is discarded and the stack is
reported as skipped. The command waits until the stack reaches a stable state
and streams resource events while the operation is in flight.

Examples:
  groundwork deploy vpc -e dev        # Create or update the vpc stack in dev
  groundwork deploy app -e prod       # Deploy the app stack to prod
  groundwork deploy vpc -e dev --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := getOrchestrator(cmd, false)
		if err != nil {
			return err
		}

		report, err := orch.DeployOne(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Print(newRenderer().RunSummary(report))

		if report.Failed() {
			return &orchestrate.RunFailedError{Report: report}
		}
		return nil
	},
}

// deployAllCmd represents the deploy-all command
var deployAllCmd = &cobra.Command{
	Use:   "deploy-all",
	Short: "Deploy every stack of an environment in dependency order",
	Long: `Deploy all stacks of the target environment in their configured order.

Stacks are deployed one at a time. When a stack fails, the run stops and the
remaining stacks are reported as skipped; stacks with no changes are skipped
and the run continues. Use --scope to restrict the run to one scope.

Examples:
  groundwork deploy-all -e dev
  groundwork deploy-all -e prod --scope foundation
  groundwork deploy-all -e dev --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := cmd.Flags().GetString("scope")
		if err != nil {
			return err
		}

		orch, err := getOrchestrator(cmd, false)
		if err != nil {
			return err
		}

		report, err := orch.DeployAll(cmd.Context(), scope)
		if err != nil {
			return err
		}

		fmt.Print(newRenderer().RunSummary(report))

		if report.Failed() {
			return &orchestrate.RunFailedError{Report: report}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(deployAllCmd)
}
