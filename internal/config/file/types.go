/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package file contains types and structures specific to file-based
// configuration providers. These types represent the raw YAML structure
// before environment resolution and inheritance.
package file

import (
	"fmt"

	"github.com/worx/groundwork/internal/config"
	"gopkg.in/yaml.v3"
)

// Config represents the raw YAML configuration file structure
// Used for parsing groundwork.yaml before environment resolution
type Config struct {
	Project      string                  `yaml:"project"`
	Region       string                  `yaml:"region"`
	Tags         map[string]string       `yaml:"tags"`
	Naming       *Naming                 `yaml:"naming"`
	Environments map[string]*Environment `yaml:"environments"`
	Stacks       []*Stack                `yaml:"stacks"`
}

// Naming configures how physical stack names are derived
type Naming struct {
	// StackName is a Go text/template over Project, Environment and Stack
	StackName string `yaml:"stack_name"`
}

// Environment represents environment configuration as it appears in YAML
type Environment struct {
	Account    string            `yaml:"account"`
	Region     string            `yaml:"region"`
	Tags       map[string]string `yaml:"tags"`
	Parameters map[string]string `yaml:"parameters"`
}

// Stack represents stack configuration as it appears in YAML before
// environment resolution. The list order in the file is the deployment
// order.
type Stack struct {
	Key            string                          `yaml:"key"`
	Scope          string                          `yaml:"scope"`
	Template       string                          `yaml:"template"`
	Parameters     map[string]*yamlParameterValue  `yaml:"parameters"`
	ParameterFiles []string                        `yaml:"parameter_files"`
	Tags           map[string]string               `yaml:"tags"`
	DependsOn      []string                        `yaml:"depends_on"`
	Capabilities   []string                        `yaml:"capabilities"`
	Stateful       bool                            `yaml:"stateful"`
	Environments   map[string]*EnvironmentOverride `yaml:"environments"`
}

// EnvironmentOverride represents environment-specific overrides for a stack
type EnvironmentOverride struct {
	Parameters     map[string]*yamlParameterValue `yaml:"parameters"`
	ParameterFiles []string                       `yaml:"parameter_files"`
	Tags           map[string]string              `yaml:"tags"`
	Stateful       *bool                          `yaml:"stateful"`
}

// yamlParameterValue represents either a literal value or a resolver object
type yamlParameterValue struct {
	// For literal values
	Literal        string
	IsLiteralValue bool // needed to keep empty string literals

	// For deploy-time resolution
	Resolver *yamlParameterResolver
}

// yamlParameterResolver defines how to resolve a parameter dynamically
type yamlParameterResolver struct {
	Type   string            `yaml:"type"` // "stack-output"
	Config map[string]string `yaml:",inline"`
}

// UnmarshalYAML implements custom YAML unmarshalling for yamlParameterValue
func (pv *yamlParameterValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		pv.Literal = node.Value
		pv.IsLiteralValue = true
		return nil

	case yaml.MappingNode:
		pv.Resolver = &yamlParameterResolver{}
		if err := node.Decode(pv.Resolver); err != nil {
			return err
		}
		if pv.Resolver.Type == "" {
			return fmt.Errorf("parameter resolver is missing a type")
		}
		return nil

	default:
		return fmt.Errorf("parameter value must be a string literal or a resolver object")
	}
}

// MarshalYAML implements custom YAML marshalling for yamlParameterValue
func (pv *yamlParameterValue) MarshalYAML() (interface{}, error) {
	if pv.IsLiteralValue {
		return pv.Literal, nil
	}

	if pv.Resolver != nil {
		return pv.Resolver, nil
	}

	return nil, fmt.Errorf("parameter value has no valid content")
}

// ToConfigParameterValue converts a YAML parameter value to the generic
// config representation
func (pv *yamlParameterValue) ToConfigParameterValue() *config.ParameterValue {
	if pv.IsLiteralValue {
		return &config.ParameterValue{
			ResolutionType: "literal",
			ResolutionConfig: map[string]string{
				"value": pv.Literal,
			},
		}
	}

	if pv.Resolver != nil {
		cfg := make(map[string]string, len(pv.Resolver.Config))
		for key, value := range pv.Resolver.Config {
			cfg[key] = value
		}

		return &config.ParameterValue{
			ResolutionType:   pv.Resolver.Type,
			ResolutionConfig: cfg,
		}
	}

	return nil
}

// IsLiteral returns true if this parameter value is a literal string
func (pv *yamlParameterValue) IsLiteral() bool {
	return pv.IsLiteralValue
}

// IsResolver returns true if this parameter value uses a resolver
func (pv *yamlParameterValue) IsResolver() bool {
	return pv.Resolver != nil
}
