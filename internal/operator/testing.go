/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package operator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/worx/groundwork/internal/model"
)

// MockOperator is a mock implementation of Operator
type MockOperator struct {
	mock.Mock
}

func (m *MockOperator) Deploy(ctx context.Context, stack *model.Stack) *Result {
	args := m.Called(ctx, stack)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*Result)
}

func (m *MockOperator) Destroy(ctx context.Context, stack *model.Stack) *Result {
	args := m.Called(ctx, stack)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*Result)
}

func (m *MockOperator) QueryStatus(ctx context.Context, stack *model.Stack) *Result {
	args := m.Called(ctx, stack)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*Result)
}
