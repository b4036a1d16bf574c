/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package validate

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockValidator is a mock implementation of Validator for testing
type MockValidator struct {
	mock.Mock
}

// ValidateStack mocks the ValidateStack method
func (m *MockValidator) ValidateStack(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ValidateAll mocks the ValidateAll method
func (m *MockValidator) ValidateAll(ctx context.Context, scope string) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}
