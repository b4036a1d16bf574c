/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worx/groundwork/internal/aws"
	"github.com/worx/groundwork/internal/config/file"
	"github.com/worx/groundwork/internal/operator"
	"github.com/worx/groundwork/internal/orchestrate"
	"github.com/worx/groundwork/internal/registry"
	"github.com/worx/groundwork/internal/resolve"
	"github.com/worx/groundwork/internal/status"
)

var (
	// orchestrator can be injected for testing
	orchestrator orchestrate.Orchestrator
)

// SetOrchestrator allows injection of an orchestrator (for testing)
func SetOrchestrator(o orchestrate.Orchestrator) {
	orchestrator = o
}

// environmentName returns the target environment, which every operational
// command requires
func environmentName(cmd *cobra.Command) (string, error) {
	environment, err := cmd.Flags().GetString("environment")
	if err != nil {
		return "", err
	}
	if environment == "" {
		return "", fmt.Errorf("required flag \"environment\" not set")
	}
	return environment, nil
}

// loadRegistry builds the stack registry for the configured environment
func loadRegistry(cmd *cobra.Command) (*registry.Registry, error) {
	environment, err := environmentName(cmd)
	if err != nil {
		return nil, err
	}

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	provider := file.NewProvider(configFile)
	return registry.Load(cmd.Context(), provider, environment)
}

// buildClientFactory creates the AWS client factory for a registry's
// environment, honouring the --profile flag
func buildClientFactory(cmd *cobra.Command, reg *registry.Registry) (aws.ClientFactory, error) {
	profile, err := cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	return aws.NewClientFactory(aws.Config{
		Region:  reg.Environment().Region,
		Profile: profile,
	}), nil
}

// getOrchestrator returns the orchestrator instance, creating a default one
// wired to the configured environment if none has been injected
func getOrchestrator(cmd *cobra.Command, autoApprove bool) (orchestrate.Orchestrator, error) {
	if orchestrator != nil {
		return orchestrator, nil
	}

	reg, err := loadRegistry(cmd)
	if err != nil {
		return nil, err
	}

	clientFactory, err := buildClientFactory(cmd, reg)
	if err != nil {
		return nil, err
	}

	logger := LoggerFromContext(cmd.Context())
	op := operator.NewStackOperator(clientFactory,
		operator.WithLogger(logger),
		operator.WithEventSink(printStackEvent),
	)

	var stackOperator operator.Operator = op
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}
	if dryRun {
		stackOperator = operator.NewDryRunOperator(op, logger)
	}

	resolver := resolve.NewStackResolver(reg)
	environmentOrchestrator := orchestrate.NewEnvironmentOrchestrator(reg, resolver, stackOperator, logger)
	environmentOrchestrator.SetAutoApprove(autoApprove)
	return environmentOrchestrator, nil
}

// printStackEvent echoes one CloudFormation resource event while an
// operation is in flight
func printStackEvent(event aws.StackEvent) {
	if event.ResourceStatusReason != "" {
		fmt.Printf("  %s %s %s %s (%s)\n",
			event.Timestamp.Format("15:04:05"), event.LogicalResourceID,
			event.ResourceType, event.ResourceStatus, event.ResourceStatusReason)
		return
	}
	fmt.Printf("  %s %s %s %s\n",
		event.Timestamp.Format("15:04:05"), event.LogicalResourceID,
		event.ResourceType, event.ResourceStatus)
}

// newRenderer creates the terminal renderer for reports
func newRenderer() *status.Renderer {
	return status.NewRenderer()
}
