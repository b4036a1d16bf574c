/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import "fmt"

// NewTestEnvironment creates an Environment for testing purposes
func NewTestEnvironment(name, region, account string) *Environment {
	return &Environment{
		Name:    name,
		Region:  region,
		Account: account,
	}
}

// NewDefaultTestEnvironment creates an Environment with default test values
func NewDefaultTestEnvironment() *Environment {
	return &Environment{
		Name:    "test",
		Region:  "us-east-1",
		Account: "123456789012",
	}
}

// NewTestStack creates a Stack for testing purposes with a proper Environment
func NewTestStack(key string, env *Environment) *Stack {
	if env == nil {
		env = NewDefaultTestEnvironment()
	}

	return &Stack{
		Key:          key,
		Name:         fmt.Sprintf("groundwork-%s-%s", env.Name, key),
		Environment:  env,
		TemplateBody: `{"AWSTemplateFormatVersion": "2010-09-09"}`,
		Parameters:   make(map[string]string),
		OutputRefs:   make(map[string]OutputRef),
		Tags:         make(map[string]string),
		Capabilities: []string{},
		DependsOn:    []string{},
	}
}

// NewTestStatefulStack creates a Stack flagged as stateful, for confirmation
// gate tests
func NewTestStatefulStack(key string, env *Environment) *Stack {
	s := NewTestStack(key, env)
	s.Stateful = true
	return s
}
