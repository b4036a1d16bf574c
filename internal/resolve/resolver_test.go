/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/worx/groundwork/internal/config"
	"github.com/worx/groundwork/internal/registry"
)

const testTemplateBody = `{"AWSTemplateFormatVersion": "2010-09-09", "Resources": {}}`

func testConfig(stacks ...*config.StackConfig) *config.Config {
	return &config.Config{
		Project: "orion",
		Region:  "us-west-2",
		Environment: &config.EnvironmentConfig{
			Name:    "dev",
			Account: "123456789012",
			Region:  "us-west-2",
			Tags:    map[string]string{"Environment": "dev"},
		},
		Stacks: stacks,
	}
}

func newTestResolver(t *testing.T, cfg *config.Config) (*StackResolver, *MockFileSystemResolver) {
	t.Helper()

	reg, err := registry.New(cfg)
	require.NoError(t, err)

	files := &MockFileSystemResolver{}
	resolver := NewStackResolver(reg)
	resolver.SetFileSystemResolver(files)

	return resolver, files
}

func literal(value string) *config.ParameterValue {
	return &config.ParameterValue{
		ResolutionType:   "literal",
		ResolutionConfig: map[string]string{"value": value},
	}
}

func stackOutput(stack, output string) *config.ParameterValue {
	return &config.ParameterValue{
		ResolutionType:   "stack-output",
		ResolutionConfig: map[string]string{"stack": stack, "output": output},
	}
}

func TestResolveStack_Basic(t *testing.T) {
	// Set up mocks
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:      "vpc",
			Template: "templates/vpc.yaml",
			Parameters: map[string]*config.ParameterValue{
				"CidrBlock": literal("10.0.0.0/16"),
			},
			Tags:     map[string]string{"Component": "network"},
			Stateful: false,
		},
	))
	files.On("ReadFile", "templates/vpc.yaml").Return(testTemplateBody, nil)

	// Execute
	stack, err := resolver.ResolveStack(t.Context(), "vpc")

	// Verify
	require.NoError(t, err)
	assert.Equal(t, "vpc", stack.Key)
	assert.Equal(t, "orion-dev-vpc", stack.Name)
	assert.Equal(t, testTemplateBody, stack.TemplateBody)
	assert.Equal(t, "10.0.0.0/16", stack.Parameters["CidrBlock"])
	assert.False(t, stack.Stateful)

	require.NotNil(t, stack.Environment)
	assert.Equal(t, "dev", stack.Environment.Name)
	assert.Equal(t, "123456789012", stack.Environment.Account)
	assert.Equal(t, "us-west-2", stack.Environment.Region)

	files.AssertExpectations(t)
}

func TestResolveStack_TemplateBodyIsVerbatim(t *testing.T) {
	// Template bodies are opaque: CloudFormation syntax that looks like a
	// Go template must pass through untouched
	body := `{"Fn::Sub": "{{ .Project }}-${AWS::Region}"}`

	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	))
	files.On("ReadFile", "templates/vpc.yaml").Return(body, nil)

	stack, err := resolver.ResolveStack(t.Context(), "vpc")

	require.NoError(t, err)
	assert.Equal(t, body, stack.TemplateBody)
}

func TestResolveStack_DefaultCapabilities(t *testing.T) {
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	))
	files.On("ReadFile", "templates/vpc.yaml").Return(testTemplateBody, nil)

	stack, err := resolver.ResolveStack(t.Context(), "vpc")

	require.NoError(t, err)
	assert.Equal(t, []string{"CAPABILITY_IAM"}, stack.Capabilities)
}

func TestResolveStack_ExplicitCapabilities(t *testing.T) {
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:          "iam",
			Template:     "templates/iam.yaml",
			Capabilities: []string{"CAPABILITY_NAMED_IAM", "CAPABILITY_AUTO_EXPAND"},
		},
	))
	files.On("ReadFile", "templates/iam.yaml").Return(testTemplateBody, nil)

	stack, err := resolver.ResolveStack(t.Context(), "iam")

	require.NoError(t, err)
	assert.Equal(t, []string{"CAPABILITY_NAMED_IAM", "CAPABILITY_AUTO_EXPAND"}, stack.Capabilities)
}

func TestResolveStack_UnknownKey(t *testing.T) {
	resolver, _ := newTestResolver(t, testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	))

	stack, err := resolver.ResolveStack(t.Context(), "missing")

	require.Error(t, err)
	assert.Nil(t, stack)

	var unknownErr *registry.UnknownStackKeyError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "missing", unknownErr.Key)
}

func TestResolveStack_TemplateReadError(t *testing.T) {
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	))
	files.On("ReadFile", "templates/vpc.yaml").Return("", errors.New("no such file"))

	stack, err := resolver.ResolveStack(t.Context(), "vpc")

	require.Error(t, err)
	assert.Nil(t, stack)
	assert.Contains(t, err.Error(), "failed to read template for stack vpc")
}

func TestResolveStack_OutputReferences(t *testing.T) {
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
		&config.StackConfig{
			Key:      "app",
			Template: "templates/app.yaml",
			Parameters: map[string]*config.ParameterValue{
				"VpcId":        stackOutput("vpc", "VpcId"),
				"InstanceType": literal("t3.small"),
			},
		},
	))
	files.On("ReadFile", "templates/app.yaml").Return(testTemplateBody, nil)

	stack, err := resolver.ResolveStack(t.Context(), "app")

	require.NoError(t, err)
	assert.Equal(t, "t3.small", stack.Parameters["InstanceType"])
	assert.NotContains(t, stack.Parameters, "VpcId", "output-backed parameters are not literal parameters")

	require.True(t, stack.HasOutputRefs())
	ref := stack.OutputRefs["VpcId"]
	assert.Equal(t, "orion-dev-vpc", ref.StackName, "reference carries the physical stack name")
	assert.Equal(t, "VpcId", ref.OutputKey)
}

func TestResolveStack_OutputReferenceUnknownTarget(t *testing.T) {
	resolver, _ := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:      "app",
			Template: "templates/app.yaml",
			Parameters: map[string]*config.ParameterValue{
				"VpcId": stackOutput("missing", "VpcId"),
			},
		},
	))

	_, err := resolver.ResolveStack(t.Context(), "app")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter VpcId of stack app")
	assert.Contains(t, err.Error(), `unknown stack key "missing"`)
}

func TestResolveStack_OutputReferenceMustPointBackwards(t *testing.T) {
	resolver, _ := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:      "app",
			Template: "templates/app.yaml",
			Parameters: map[string]*config.ParameterValue{
				"DatabaseEndpoint": stackOutput("database", "Endpoint"),
			},
		},
		&config.StackConfig{Key: "database", Template: "templates/database.yaml"},
	))

	_, err := resolver.ResolveStack(t.Context(), "app")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "references database which is not defined before it")
}

func TestResolveStack_OutputReferenceIncomplete(t *testing.T) {
	resolver, _ := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:      "app",
			Template: "templates/app.yaml",
			Parameters: map[string]*config.ParameterValue{
				"VpcId": {
					ResolutionType:   "stack-output",
					ResolutionConfig: map[string]string{"stack": "vpc"},
				},
			},
		},
	))

	_, err := resolver.ResolveStack(t.Context(), "app")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires stack and output settings")
}

func TestResolveStack_UnsupportedResolutionType(t *testing.T) {
	resolver, _ := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:      "app",
			Template: "templates/app.yaml",
			Parameters: map[string]*config.ParameterValue{
				"Secret": {
					ResolutionType:   "ssm-parameter",
					ResolutionConfig: map[string]string{"name": "/secret"},
				},
			},
		},
	))

	_, err := resolver.ResolveStack(t.Context(), "app")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported resolution type "ssm-parameter"`)
}

func TestResolveStack_ParameterPrecedence(t *testing.T) {
	cfg := testConfig(
		&config.StackConfig{
			Key:            "app",
			Template:       "templates/app.yaml",
			ParameterFiles: []string{"parameters/app.env"},
			Parameters: map[string]*config.ParameterValue{
				"InstanceType": literal("m5.large"),
			},
		},
	)
	cfg.Environment.Parameters = map[string]string{
		"LogLevel":     "info",
		"InstanceType": "t3.nano",
		"Replicas":     "1",
	}

	resolver, files := newTestResolver(t, cfg)
	files.On("ReadFile", "templates/app.yaml").Return(testTemplateBody, nil)
	files.On("ReadFile", "parameters/app.env").Return("Replicas=3\nInstanceType=t3.micro\n", nil)

	stack, err := resolver.ResolveStack(t.Context(), "app")

	require.NoError(t, err)
	assert.Equal(t, "info", stack.Parameters["LogLevel"], "environment parameters apply when nothing overrides them")
	assert.Equal(t, "3", stack.Parameters["Replicas"], "parameter files override environment parameters")
	assert.Equal(t, "m5.large", stack.Parameters["InstanceType"], "stack parameters override parameter files")
}

func TestResolveStack_ParameterFilePathTemplating(t *testing.T) {
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:            "app",
			Template:       "templates/app.yaml",
			ParameterFiles: []string{"parameters/app.{{ .Environment }}.env"},
		},
	))
	files.On("ReadFile", "templates/app.yaml").Return(testTemplateBody, nil)
	files.On("ReadFile", "parameters/app.dev.env").Return("LogLevel=debug\n", nil)

	stack, err := resolver.ResolveStack(t.Context(), "app")

	require.NoError(t, err)
	assert.Equal(t, "debug", stack.Parameters["LogLevel"])
	files.AssertExpectations(t)
}

func TestResolveStack_JSONParameterFile(t *testing.T) {
	body := `[
		{"ParameterKey": "InstanceClass", "ParameterValue": "db.t3.micro"},
		{"ParameterKey": "MultiAZ", "ParameterValue": "false"}
	]`

	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:            "database",
			Template:       "templates/database.yaml",
			ParameterFiles: []string{"parameters/database.json"},
		},
	))
	files.On("ReadFile", "templates/database.yaml").Return(testTemplateBody, nil)
	files.On("ReadFile", "parameters/database.json").Return(body, nil)

	stack, err := resolver.ResolveStack(t.Context(), "database")

	require.NoError(t, err)
	assert.Equal(t, "db.t3.micro", stack.Parameters["InstanceClass"])
	assert.Equal(t, "false", stack.Parameters["MultiAZ"])
}

func TestResolveStack_MalformedJSONParameterFile(t *testing.T) {
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:            "database",
			Template:       "templates/database.yaml",
			ParameterFiles: []string{"parameters/database.json"},
		},
	))
	files.On("ReadFile", "parameters/database.json").Return(`{"not": "a list"}`, nil)

	_, err := resolver.ResolveStack(t.Context(), "database")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read parameter file for stack database")
}

func TestResolveStack_JSONParameterFileMissingKey(t *testing.T) {
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{
			Key:            "database",
			Template:       "templates/database.yaml",
			ParameterFiles: []string{"parameters/database.json"},
		},
	))
	files.On("ReadFile", "parameters/database.json").Return(`[{"ParameterValue": "x"}]`, nil)

	_, err := resolver.ResolveStack(t.Context(), "database")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "without a ParameterKey")
}

func TestResolveStacks_OrdersByRegistryPosition(t *testing.T) {
	resolver, files := newTestResolver(t, testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
		&config.StackConfig{Key: "database", Template: "templates/database.yaml", DependsOn: []string{"vpc"}},
		&config.StackConfig{Key: "app", Template: "templates/app.yaml", DependsOn: []string{"database"}},
	))
	files.On("ReadFile", mock.Anything).Return(testTemplateBody, nil)

	resolved, err := resolver.ResolveStacks(t.Context(), []string{"app", "vpc", "database", "app"})

	require.NoError(t, err)
	assert.Equal(t, "dev", resolved.Environment)
	assert.Equal(t, []string{"vpc", "database", "app"}, resolved.DeploymentOrder)
	require.Len(t, resolved.Stacks, 3)
	assert.Equal(t, "vpc", resolved.Stacks[0].Key)
	assert.Equal(t, "app", resolved.Stacks[2].Key)
}

func TestResolveStacks_UnknownKey(t *testing.T) {
	resolver, _ := newTestResolver(t, testConfig(
		&config.StackConfig{Key: "vpc", Template: "templates/vpc.yaml"},
	))

	resolved, err := resolver.ResolveStacks(t.Context(), []string{"vpc", "missing"})

	require.Error(t, err)
	assert.Nil(t, resolved)

	var unknownErr *registry.UnknownStackKeyError
	require.ErrorAs(t, err, &unknownErr)
}
