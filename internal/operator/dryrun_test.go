/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/worx/groundwork/internal/model"
)

func statusResult(stack *model.Stack, status StackStatus) *Result {
	return &Result{
		StackKey:    stack.Key,
		StackName:   stack.Name,
		Action:      ActionStatus,
		Outcome:     OutcomeSuccess,
		FinalStatus: status,
	}
}

func TestDryRunDeploy_WouldCreate(t *testing.T) {
	stack := model.NewTestStack("vpc", model.NewDefaultTestEnvironment())

	// Set up mocks
	inner := &MockOperator{}
	inner.On("QueryStatus", mock.Anything, stack).Return(statusResult(stack, StatusNotExists))

	dryRun := NewDryRunOperator(inner, quietLogger())

	// Execute
	result := dryRun.Deploy(t.Context(), stack)

	// Verify
	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, StatusNotExists, result.FinalStatus)
	assert.Contains(t, result.Detail, "would create stack")
	inner.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDryRunDeploy_WouldUpdate(t *testing.T) {
	stack := model.NewTestStack("vpc", model.NewDefaultTestEnvironment())

	inner := &MockOperator{}
	inner.On("QueryStatus", mock.Anything, stack).Return(statusResult(stack, StatusReady))

	dryRun := NewDryRunOperator(inner, quietLogger())

	result := dryRun.Deploy(t.Context(), stack)

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Contains(t, result.Detail, "would update stack")
	inner.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDryRunDestroy_WouldDelete(t *testing.T) {
	stack := model.NewTestStatefulStack("database", model.NewDefaultTestEnvironment())

	inner := &MockOperator{}
	inner.On("QueryStatus", mock.Anything, stack).Return(statusResult(stack, StatusReady))

	dryRun := NewDryRunOperator(inner, quietLogger())

	result := dryRun.Destroy(t.Context(), stack)

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, ActionDestroy, result.Action)
	assert.Contains(t, result.Detail, "would delete stack")
	inner.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
}

func TestDryRunDestroy_NothingToDestroy(t *testing.T) {
	stack := model.NewTestStack("vpc", model.NewDefaultTestEnvironment())

	inner := &MockOperator{}
	inner.On("QueryStatus", mock.Anything, stack).Return(statusResult(stack, StatusNotExists))

	dryRun := NewDryRunOperator(inner, quietLogger())

	result := dryRun.Destroy(t.Context(), stack)

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Contains(t, result.Detail, "nothing to destroy")
}

func TestDryRunQueryStatus_PassesThrough(t *testing.T) {
	stack := model.NewTestStack("vpc", model.NewDefaultTestEnvironment())
	expected := statusResult(stack, StatusReady)

	inner := &MockOperator{}
	inner.On("QueryStatus", mock.Anything, stack).Return(expected)

	dryRun := NewDryRunOperator(inner, quietLogger())

	result := dryRun.QueryStatus(t.Context(), stack)

	assert.Same(t, expected, result)
	inner.AssertExpectations(t)
}
