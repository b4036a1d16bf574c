/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package config

import (
	"context"
)

// ConfigProvider defines the interface for loading and validating
// configuration
type ConfigProvider interface {
	// LoadConfig loads configuration resolved for a specific environment
	LoadConfig(ctx context.Context, environment string) (*Config, error)

	// ListEnvironments returns all environments defined in the configuration
	ListEnvironments() ([]string, error)

	// Validate checks the configuration for consistency and errors
	Validate() error
}

// Config represents the resolved configuration for a specific environment.
// Stacks preserves the declaration order of the source; that order is the
// deployment order.
type Config struct {
	Project      string
	Region       string
	NameTemplate string
	Tags         map[string]string
	Environment  *EnvironmentConfig
	Stacks       []*StackConfig
}

// EnvironmentConfig represents resolved environment-specific configuration
type EnvironmentConfig struct {
	Name       string
	Account    string
	Region     string
	Tags       map[string]string
	Parameters map[string]string // environment-wide parameter defaults
}

// StackConfig represents resolved stack configuration with environment
// overrides applied
type StackConfig struct {
	Key            string
	Scope          string
	Template       string // path or file:// URI, relative to the config file
	Parameters     map[string]*ParameterValue
	ParameterFiles []string
	Tags           map[string]string
	DependsOn      []string
	Capabilities   []string
	Stateful       bool
}

// ParameterValue describes how a parameter value is produced
type ParameterValue struct {
	ResolutionType   string // "literal", "stack-output"
	ResolutionConfig map[string]string
}

// Literal returns the literal value and true when this parameter is a plain
// string.
func (pv *ParameterValue) Literal() (string, bool) {
	if pv.ResolutionType != "literal" {
		return "", false
	}
	return pv.ResolutionConfig["value"], true
}
