/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package registry

import "fmt"

// UnknownStackKeyError is returned when a requested stack key is not
// present in the registry
type UnknownStackKeyError struct {
	Key string
}

func (e *UnknownStackKeyError) Error() string {
	return fmt.Sprintf("unknown stack key %q", e.Key)
}

// ValidationError is returned when configuration cannot be assembled into
// a usable registry
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
