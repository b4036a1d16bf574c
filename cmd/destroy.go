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

// destroyCmd represents the destroy command
var destroyCmd = &cobra.Command{
	Use:   "destroy <stack-key>",
	Short: "Destroy a single stack",
	Long: `Delete one stack of the target environment.

Destroying a stateful stack (one that holds data, such as a database) requires
interactive confirmation or the --yes flag. A stack that does not exist is
reported as a successful no-op.

Examples:
  groundwork destroy app -e dev
  groundwork destroy database -e dev --yes
  groundwork destroy app -e dev --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		autoApprove, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}

		orch, err := getOrchestrator(cmd, autoApprove)
		if err != nil {
			return err
		}

		report, err := orch.DestroyOne(cmd.Context(), args[0])
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

// destroyAllCmd represents the destroy-all command
var destroyAllCmd = &cobra.Command{
	Use:   "destroy-all",
	Short: "Destroy every stack of an environment in reverse order",
	Long: `Delete all stacks of the target environment in reverse of their
configured order.

Confirmation for stateful stacks is requested once, before anything is
deleted; declining leaves every stack untouched. Unlike deployment, a failed
deletion does not stop the run: the remaining stacks are still attempted and
the failure is reported at the end. Use --scope to restrict the run to one
scope.

Examples:
  groundwork destroy-all -e dev
  groundwork destroy-all -e dev --yes
  groundwork destroy-all -e prod --scope foundation --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := cmd.Flags().GetString("scope")
		if err != nil {
			return err
		}

		autoApprove, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}

		orch, err := getOrchestrator(cmd, autoApprove)
		if err != nil {
			return err
		}

		report, err := orch.DestroyAll(cmd.Context(), scope)
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
	destroyCmd.Flags().Bool("yes", false, "destroy stateful stacks without prompting")
	destroyAllCmd.Flags().Bool("yes", false, "destroy stateful stacks without prompting")

	rootCmd.AddCommand(destroyCmd)
	rootCmd.AddCommand(destroyAllCmd)
}
