/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package orchestrate

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockOrchestrator is a mock implementation of Orchestrator
type MockOrchestrator struct {
	mock.Mock
}

func (m *MockOrchestrator) DeployAll(ctx context.Context, scope string) (*RunReport, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RunReport), args.Error(1)
}

func (m *MockOrchestrator) DeployOne(ctx context.Context, key string) (*RunReport, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RunReport), args.Error(1)
}

func (m *MockOrchestrator) DestroyAll(ctx context.Context, scope string) (*RunReport, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RunReport), args.Error(1)
}

func (m *MockOrchestrator) DestroyOne(ctx context.Context, key string) (*RunReport, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RunReport), args.Error(1)
}

func (m *MockOrchestrator) Status(ctx context.Context, scope string) (*RunReport, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RunReport), args.Error(1)
}
