/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package orchestrate

import (
	"fmt"
	"strings"
)

// ConfirmationError indicates the user declined to destroy stateful stacks.
// No stack was touched when this error is returned.
type ConfirmationError struct {
	StackKeys []string
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("destruction of stateful stacks not confirmed: %s", strings.Join(e.StackKeys, ", "))
}

// RunFailedError indicates that one or more stacks failed during a run.
// The full report is attached for rendering.
type RunFailedError struct {
	Report *RunReport
}

func (e *RunFailedError) Error() string {
	_, failed, _ := e.Report.Counts()
	return fmt.Sprintf("%s failed for %d of %d stacks", e.Report.Action, failed, len(e.Report.Results))
}
