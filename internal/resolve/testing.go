/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package resolve

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/worx/groundwork/internal/model"
)

// MockFileSystemResolver is a mock implementation of FileSystemResolver
type MockFileSystemResolver struct {
	mock.Mock
}

func (m *MockFileSystemResolver) ReadFile(location string) (string, error) {
	args := m.Called(location)
	return args.String(0), args.Error(1)
}

// MockResolver is a mock implementation of Resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveStack(ctx context.Context, key string) (*model.Stack, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stack), args.Error(1)
}

func (m *MockResolver) ResolveStacks(ctx context.Context, keys []string) (*ResolvedStacks, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResolvedStacks), args.Error(1)
}
