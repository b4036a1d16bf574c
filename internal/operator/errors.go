/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package operator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/smithy-go"
)

// TimeoutError indicates a stack operation did not reach a terminal state
// within the operator's timeout. The operation itself keeps running in
// CloudFormation.
type TimeoutError struct {
	StackName string
	After     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("stack %s did not reach a terminal state within %s", e.StackName, e.After)
}

// isTransient recognises throttling and availability errors that are worth
// retrying while polling
func isTransient(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.ErrorCode() {
	case "Throttling", "ThrottlingException", "RequestLimitExceeded",
		"ServiceUnavailable", "RequestTimeout":
		return true
	}
	return false
}

// isNoChangesReason recognises the status reason CloudFormation attaches to
// changesets that failed because the template and parameters match what is
// already deployed
func isNoChangesReason(reason string) bool {
	return strings.Contains(reason, "didn't contain changes") ||
		strings.Contains(reason, "No updates are to be performed")
}
