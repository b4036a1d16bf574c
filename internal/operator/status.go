/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package operator

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/worx/groundwork/internal/aws"
)

// StackStatus is the condensed stack state groundwork reasons about.
// Every raw CloudFormation status maps onto exactly one of these.
type StackStatus string

const (
	// StatusNotExists means the stack does not exist or has been deleted
	StatusNotExists StackStatus = "NOT_EXISTS"

	// StatusReady means the stack settled successfully and can be updated
	StatusReady StackStatus = "READY"

	// StatusInProgress means an operation is currently running on the stack
	StatusInProgress StackStatus = "IN_PROGRESS"

	// StatusFailed means the stack settled in a failed or rolled back state
	StatusFailed StackStatus = "FAILED"

	// StatusUnknown means the stack state could not be determined
	StatusUnknown StackStatus = "UNKNOWN"
)

// classifyState condenses a described stack state
func classifyState(state *aws.StackState) StackStatus {
	if !state.Exists {
		return StatusNotExists
	}
	return classifyStackStatus(state.Status)
}

// classifyStackStatus condenses a raw CloudFormation stack status.
// Rolled back stacks count as failed: a ROLLBACK_COMPLETE stack cannot be
// updated and an UPDATE_ROLLBACK_COMPLETE stack did not apply its changes.
func classifyStackStatus(raw types.StackStatus) StackStatus {
	switch raw {
	case types.StackStatusCreateComplete,
		types.StackStatusUpdateComplete,
		types.StackStatusImportComplete:
		return StatusReady

	case types.StackStatusDeleteComplete:
		return StatusNotExists

	case types.StackStatusRollbackComplete,
		types.StackStatusUpdateRollbackComplete,
		types.StackStatusImportRollbackComplete:
		return StatusFailed
	}

	s := string(raw)
	switch {
	case strings.HasSuffix(s, "_IN_PROGRESS"):
		return StatusInProgress
	case strings.HasSuffix(s, "_FAILED"):
		return StatusFailed
	}

	return StatusUnknown
}
