/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package operator

// Action identifies the kind of operation performed on a stack
type Action string

const (
	ActionDeploy  Action = "deploy"
	ActionDestroy Action = "destroy"
	ActionStatus  Action = "status"
)

// Outcome is the overall result of an operation on one stack
type Outcome string

const (
	// OutcomeSuccess means the operation completed as requested
	OutcomeSuccess Outcome = "SUCCESS"

	// OutcomeFailure means the operation was attempted and did not complete
	OutcomeFailure Outcome = "FAILURE"

	// OutcomeSkipped means the operation was not attempted or required no work
	OutcomeSkipped Outcome = "SKIPPED"
)

// Result describes the outcome of a single operation on a single stack.
// Operator methods always return a result, never a bare error: failures are
// folded into the result so that callers can keep going over other stacks.
type Result struct {
	StackKey    string
	StackName   string
	Action      Action
	Outcome     Outcome
	FinalStatus StackStatus
	Detail      string
	Err         error
}

// fail marks a result as failed
func fail(result *Result, status StackStatus, detail string, err error) *Result {
	result.Outcome = OutcomeFailure
	result.FinalStatus = status
	result.Detail = detail
	result.Err = err
	return result
}

// succeed marks a result as successful
func succeed(result *Result, status StackStatus, detail string) *Result {
	result.Outcome = OutcomeSuccess
	result.FinalStatus = status
	result.Detail = detail
	return result
}

// skip marks a result as skipped
func skip(result *Result, status StackStatus, detail string) *Result {
	result.Outcome = OutcomeSkipped
	result.FinalStatus = status
	result.Detail = detail
	return result
}
