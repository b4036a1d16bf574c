/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of every stack in an environment",
	Long: `Query the current status of all stacks of the target environment.

Every stack in scope is queried; a stack whose status cannot be determined is
shown as UNKNOWN and never aborts the sweep. The status command performs no
mutations and exits zero even when stacks are failed or missing.

Examples:
  groundwork status -e dev
  groundwork status -e prod --scope foundation`,
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

		report, err := orch.Status(cmd.Context(), scope)
		if err != nil {
			return err
		}

		fmt.Print(newRenderer().StatusTable(report))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
