/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/worx/groundwork/internal/logging"
	"github.com/worx/groundwork/internal/orchestrate"
	"github.com/worx/groundwork/internal/registry"
)

// loggerKey is the context key under which the diagnostic logger travels
type loggerKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "A command-line tool for managing an environment's foundation CloudFormation stacks",
	Long: `Groundwork is a CLI tool that provisions and tears down the foundation
CloudFormation stacks of an environment as code:

• Declarative configuration in a single YAML file
• Ordered multi-stack deployment with fail-fast semantics
• Reverse-order teardown with confirmation gates for stateful stacks
• Status sweeps across every stack in an environment
• Dry-run previews and template validation

Use groundwork to deploy, destroy, and monitor the CloudFormation stacks of
an environment with consistent, repeatable configurations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}

		level := logging.LevelInfo
		if verbose {
			level = logging.LevelDebug
		}

		logger := logging.NewLogger(os.Stderr, level)
		cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
		return nil
	},
}

// Root returns the root command for execution by main
func Root() *cobra.Command {
	return rootCmd
}

// LoggerFromContext returns the diagnostic logger installed by the root
// command, or the default logger when none is present
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ExitCode maps an error returned by command execution to a process exit code:
// 0 success, 2 configuration errors, 3 declined confirmation, 1 anything else
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var confirmationErr *orchestrate.ConfirmationError
	if errors.As(err, &confirmationErr) {
		return 3
	}

	var unknownKeyErr *registry.UnknownStackKeyError
	if errors.As(err, &unknownKeyErr) {
		return 2
	}

	var validationErr *registry.ValidationError
	if errors.As(err, &validationErr) {
		return 2
	}

	return 1
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "groundwork.yaml", "configuration file (default is groundwork.yaml)")
	rootCmd.PersistentFlags().StringP("environment", "e", "", "target environment")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS profile (overrides ambient credentials)")
	rootCmd.PersistentFlags().String("scope", "", "restrict the operation to stacks in this scope")
	rootCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without executing")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
