/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientFactory(t *testing.T) {
	factory := NewClientFactory(Config{Region: "us-east-1"})

	require.NotNil(t, factory)

	var _ ClientFactory = factory
}

func TestClientFactory_CachesPerRegion(t *testing.T) {
	factory := NewClientFactory(Config{Region: "us-east-1"})

	first, err := factory.GetCloudFormationOperations(t.Context(), "us-east-1")
	require.NoError(t, err)

	second, err := factory.GetCloudFormationOperations(t.Context(), "us-east-1")
	require.NoError(t, err)

	assert.Same(t, first, second, "repeated requests for a region reuse the client")

	other, err := factory.GetCloudFormationOperations(t.Context(), "eu-west-1")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestClientFactory_EmptyRegionUsesDefault(t *testing.T) {
	factory := NewClientFactory(Config{Region: "ap-southeast-2"})

	byDefault, err := factory.GetCloudFormationOperations(t.Context(), "")
	require.NoError(t, err)

	explicit, err := factory.GetCloudFormationOperations(t.Context(), "ap-southeast-2")
	require.NoError(t, err)

	assert.Same(t, byDefault, explicit)
}
