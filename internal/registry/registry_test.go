/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/worx/groundwork/internal/config"
)

func testConfig(stacks ...*config.StackConfig) *config.Config {
	return &config.Config{
		Project: "orion",
		Region:  "us-west-2",
		Tags:    map[string]string{"Project": "orion"},
		Environment: &config.EnvironmentConfig{
			Name:    "dev",
			Account: "123456789012",
			Region:  "us-west-2",
			Tags:    map[string]string{"Project": "orion", "Environment": "dev"},
		},
		Stacks: stacks,
	}
}

func TestNew_BuildsDefinitionsInOrder(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Key: "vpc", Scope: "foundation", Template: "templates/vpc.yaml"},
		&config.StackConfig{Key: "database", Template: "templates/database.yaml", DependsOn: []string{"vpc"}, Stateful: true},
		&config.StackConfig{Key: "app", Template: "templates/app.yaml", DependsOn: []string{"vpc", "database"}},
	)

	reg, err := New(cfg)

	require.NoError(t, err)
	assert.Equal(t, []string{"vpc", "database", "app"}, reg.Keys(""))
	assert.Equal(t, "orion", reg.Project())
	assert.Equal(t, "dev", reg.Environment().Name)
}

func TestNew_DefaultStackNames(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	)

	reg, err := New(cfg)

	require.NoError(t, err)
	definition, err := reg.Resolve("vpc")
	require.NoError(t, err)
	assert.Equal(t, "orion-dev-vpc", definition.StackName)
}

func TestNew_CustomNameTemplate(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	)
	cfg.NameTemplate = "{{ .Stack }}-{{ .Environment }}"

	reg, err := New(cfg)

	require.NoError(t, err)
	definition, err := reg.Resolve("vpc")
	require.NoError(t, err)
	assert.Equal(t, "vpc-dev", definition.StackName)
}

func TestNew_InvalidNameTemplate(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	)
	cfg.NameTemplate = "{{ .Stack"

	reg, err := New(cfg)

	require.Error(t, err)
	assert.Nil(t, reg)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Reason, "invalid stack name template")
}

func TestNew_MergesEnvironmentAndStackTags(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{
			Key:      "vpc",
			Template: "templates/vpc.yaml",
			Tags:     map[string]string{"Component": "network", "Environment": "overridden"},
		},
	)

	reg, err := New(cfg)

	require.NoError(t, err)
	definition, err := reg.Resolve("vpc")
	require.NoError(t, err)
	assert.Equal(t, "orion", definition.Tags["Project"])
	assert.Equal(t, "network", definition.Tags["Component"])
	assert.Equal(t, "overridden", definition.Tags["Environment"], "stack tags win over environment tags")
}

func TestNew_DuplicateKey(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	)

	_, err := New(cfg)

	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Reason, `duplicate stack key "vpc"`)
}

func TestNew_EmptyKey(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Template: "templates/vpc.yaml"},
	)

	_, err := New(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no key")
}

func TestNew_DependencyMustBeDefinedEarlier(t *testing.T) {
	tests := []struct {
		name   string
		stacks []*config.StackConfig
	}{
		{
			name: "dependency on later stack",
			stacks: []*config.StackConfig{
				{Key: "app", Template: "templates/app.yaml", DependsOn: []string{"vpc"}},
				{Key: "vpc", Template: "templates/vpc.yaml"},
			},
		},
		{
			name: "dependency on unknown stack",
			stacks: []*config.StackConfig{
				{Key: "app", Template: "templates/app.yaml", DependsOn: []string{"missing"}},
			},
		},
		{
			name: "dependency on itself",
			stacks: []*config.StackConfig{
				{Key: "app", Template: "templates/app.yaml", DependsOn: []string{"app"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testConfig(tt.stacks...))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "not defined before it")
		})
	}
}

func TestNew_RejectsDuplicatePhysicalNames(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
		&config.StackConfig{Key: "app", Template: "templates/app.yaml"},
	)
	// Constant template collapses every stack onto one name
	cfg.NameTemplate = "{{ .Project }}-{{ .Environment }}"

	_, err := New(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "both resolve to name")
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration is nil")
}

func TestRegistry_ListByScope(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Key: "vpc", Scope: "foundation", Template: "templates/vpc.yaml"},
		&config.StackConfig{Key: "storage", Scope: "foundation", Template: "templates/storage.yaml"},
		&config.StackConfig{Key: "app", Scope: "services", Template: "templates/app.yaml"},
	)

	reg, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"vpc", "storage", "app"}, reg.Keys(""))
	assert.Equal(t, []string{"vpc", "storage"}, reg.Keys("foundation"))
	assert.Equal(t, []string{"app"}, reg.Keys("services"))
	assert.Empty(t, reg.List("unknown"))
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
		&config.StackConfig{Key: "app", Template: "templates/app.yaml"},
	)

	reg, err := New(cfg)
	require.NoError(t, err)

	listed := reg.List("")
	listed[0] = nil

	assert.Equal(t, []string{"vpc", "app"}, reg.Keys(""), "mutating a listing does not affect the registry")
}

func TestRegistry_ResolveUnknownKey(t *testing.T) {
	reg, err := New(testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	))
	require.NoError(t, err)

	definition, err := reg.Resolve("nope")

	require.Error(t, err)
	assert.Nil(t, definition)

	var unknownErr *UnknownStackKeyError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "nope", unknownErr.Key)
	assert.Equal(t, `unknown stack key "nope"`, err.Error())
}

func TestRegistry_Precedes(t *testing.T) {
	reg, err := New(testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
		&config.StackConfig{Key: "app", Template: "templates/app.yaml"},
	))
	require.NoError(t, err)

	assert.True(t, reg.Precedes("vpc", "app"))
	assert.False(t, reg.Precedes("app", "vpc"))
	assert.False(t, reg.Precedes("vpc", "vpc"))
	assert.False(t, reg.Precedes("vpc", "missing"))
	assert.False(t, reg.Precedes("missing", "vpc"))
}

func TestLoad_UsesProvider(t *testing.T) {
	// Set up mocks
	provider := &config.MockConfigProvider{}
	provider.On("LoadConfig", mock.Anything, "dev").Return(testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	), nil)

	// Execute
	reg, err := Load(t.Context(), provider, "dev")

	// Verify
	require.NoError(t, err)
	assert.Equal(t, []string{"vpc"}, reg.Keys(""))
	provider.AssertExpectations(t)
}

func TestLoad_ProviderError(t *testing.T) {
	// Set up mocks
	provider := &config.MockConfigProvider{}
	provider.On("LoadConfig", mock.Anything, "dev").Return(nil, errors.New("file not found"))

	// Execute
	reg, err := Load(t.Context(), provider, "dev")

	// Verify
	require.Error(t, err)
	assert.Nil(t, reg)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Contains(t, err.Error(), "file not found")
}
