/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package operator

import (
	"context"
	"log/slog"

	"github.com/worx/groundwork/internal/model"
)

// DryRunOperator wraps an Operator and reports what deploy and destroy
// would do without mutating anything. Status queries pass through.
type DryRunOperator struct {
	inner  Operator
	logger *slog.Logger
}

// NewDryRunOperator wraps an operator in dry-run behaviour
func NewDryRunOperator(inner Operator, logger *slog.Logger) *DryRunOperator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRunOperator{
		inner:  inner,
		logger: logger,
	}
}

// Deploy reports what a deploy would do based on the stack's current state
func (d *DryRunOperator) Deploy(ctx context.Context, stack *model.Stack) *Result {
	status := d.inner.QueryStatus(ctx, stack)

	result := &Result{
		StackKey:    stack.Key,
		StackName:   stack.Name,
		Action:      ActionDeploy,
		Outcome:     OutcomeSkipped,
		FinalStatus: status.FinalStatus,
	}

	switch status.FinalStatus {
	case StatusNotExists:
		result.Detail = "dry-run: would create stack"
	case StatusReady:
		result.Detail = "dry-run: would update stack"
	case StatusFailed:
		result.Detail = "dry-run: would attempt to update stack in a failed state"
	case StatusInProgress:
		result.Detail = "dry-run: deploy would be rejected, an operation is in progress"
	default:
		result.Detail = "dry-run: stack state could not be determined"
	}

	d.logger.Info("dry-run", "action", ActionDeploy, "stack", stack.Name, "detail", result.Detail)
	return result
}

// Destroy reports what a destroy would do based on the stack's current state
func (d *DryRunOperator) Destroy(ctx context.Context, stack *model.Stack) *Result {
	status := d.inner.QueryStatus(ctx, stack)

	result := &Result{
		StackKey:    stack.Key,
		StackName:   stack.Name,
		Action:      ActionDestroy,
		Outcome:     OutcomeSkipped,
		FinalStatus: status.FinalStatus,
	}

	switch status.FinalStatus {
	case StatusNotExists:
		result.Detail = "dry-run: stack does not exist, nothing to destroy"
	case StatusInProgress:
		result.Detail = "dry-run: destroy would be rejected, an operation is in progress"
	case StatusUnknown:
		result.Detail = "dry-run: stack state could not be determined"
	default:
		result.Detail = "dry-run: would delete stack"
	}

	d.logger.Info("dry-run", "action", ActionDestroy, "stack", stack.Name, "detail", result.Detail)
	return result
}

// QueryStatus passes through to the wrapped operator: reading state is
// always safe
func (d *DryRunOperator) QueryStatus(ctx context.Context, stack *model.Stack) *Result {
	return d.inner.QueryStatus(ctx, stack)
}
