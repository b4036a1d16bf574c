/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/worx/groundwork/internal/operator"
	"github.com/worx/groundwork/internal/orchestrate"
	"github.com/worx/groundwork/internal/registry"
)

func TestDeployCommand_Exists(t *testing.T) {
	deploy := findCommand(rootCmd, "deploy")
	require.NotNil(t, deploy)
	assert.Equal(t, "deploy <stack-key>", deploy.Use)
	assert.NotEmpty(t, deploy.Short)
}

func TestDeployCommand_DeploysSingleStack(t *testing.T) {
	// Set up mocks
	mockOrchestrator := &orchestrate.MockOrchestrator{}
	mockOrchestrator.On("DeployOne", mock.Anything, "vpc").
		Return(reportFor(operator.ActionDeploy, "vpc"), nil)
	withOrchestrator(t, mockOrchestrator)

	// Execute
	rootCmd.SetArgs([]string{"deploy", "vpc", "-e", "dev"})
	err := rootCmd.Execute()

	// Verify
	assert.NoError(t, err)
	mockOrchestrator.AssertExpectations(t)
}

func TestDeployCommand_ReportsRunFailure(t *testing.T) {
	// Set up mocks
	report := reportFor(operator.ActionDeploy, "vpc")
	report.Results = append(report.Results, &operator.Result{
		StackKey:    "database",
		StackName:   "orion-dev-database",
		Action:      operator.ActionDeploy,
		Outcome:     operator.OutcomeFailure,
		FinalStatus: operator.StatusFailed,
		Err:         errors.New("stack create failed"),
	})
	mockOrchestrator := &orchestrate.MockOrchestrator{}
	mockOrchestrator.On("DeployOne", mock.Anything, "database").Return(report, nil)
	withOrchestrator(t, mockOrchestrator)

	// Execute
	rootCmd.SetArgs([]string{"deploy", "database", "-e", "dev"})
	err := rootCmd.Execute()

	// Verify
	require.Error(t, err)
	var runErr *orchestrate.RunFailedError
	require.ErrorAs(t, err, &runErr)
	assert.Same(t, report, runErr.Report)
	assert.Equal(t, 1, ExitCode(err))
}

func TestDeployCommand_PropagatesUnknownKey(t *testing.T) {
	// Set up mocks
	mockOrchestrator := &orchestrate.MockOrchestrator{}
	mockOrchestrator.On("DeployOne", mock.Anything, "nonexistent").
		Return(nil, &registry.UnknownStackKeyError{Key: "nonexistent"})
	withOrchestrator(t, mockOrchestrator)

	// Execute
	rootCmd.SetArgs([]string{"deploy", "nonexistent", "-e", "dev"})
	err := rootCmd.Execute()

	// Verify
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
	assert.Equal(t, 2, ExitCode(err))
}

func TestDeployCommand_RequiresEnvironment(t *testing.T) {
	// Without an injected orchestrator the command builds one from flags,
	// which requires an environment name
	withOrchestrator(t, nil)

	// Execute
	rootCmd.SetArgs([]string{"deploy", "vpc", "-e", ""})
	err := rootCmd.Execute()

	// Verify
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag "environment" not set`)
}

func TestDeployAllCommand_Exists(t *testing.T) {
	deployAll := findCommand(rootCmd, "deploy-all")
	require.NotNil(t, deployAll)
	assert.NotEmpty(t, deployAll.Short)
}

func TestDeployAllCommand_DeploysScope(t *testing.T) {
	// Set up mocks
	mockOrchestrator := &orchestrate.MockOrchestrator{}
	mockOrchestrator.On("DeployAll", mock.Anything, "foundation").
		Return(reportFor(operator.ActionDeploy, "vpc", "iam"), nil)
	withOrchestrator(t, mockOrchestrator)

	// Execute
	rootCmd.SetArgs([]string{"deploy-all", "-e", "dev", "--scope", "foundation"})
	err := rootCmd.Execute()

	// Verify
	assert.NoError(t, err)
	mockOrchestrator.AssertExpectations(t)
}

func TestDeployAllCommand_DefaultsToAllStacks(t *testing.T) {
	// Set up mocks
	mockOrchestrator := &orchestrate.MockOrchestrator{}
	mockOrchestrator.On("DeployAll", mock.Anything, "").
		Return(reportFor(operator.ActionDeploy, "vpc", "database", "app"), nil)
	withOrchestrator(t, mockOrchestrator)

	// Execute
	rootCmd.SetArgs([]string{"deploy-all", "-e", "dev", "--scope", ""})
	err := rootCmd.Execute()

	// Verify
	assert.NoError(t, err)
	mockOrchestrator.AssertExpectations(t)
}
