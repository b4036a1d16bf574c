/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/worx/groundwork/internal/config"
	"gopkg.in/yaml.v3"
)

// Provider implements config.ConfigProvider by reading a single YAML file
type Provider struct {
	filename string
	raw      *Config
}

// NewProvider creates a provider that reads configuration from the given
// YAML file. The file is not read until configuration is first requested.
func NewProvider(filename string) *Provider {
	return &Provider{
		filename: filename,
	}
}

// LoadConfig loads the configuration resolved for a specific environment
func (p *Provider) LoadConfig(ctx context.Context, environment string) (*config.Config, error) {
	if err := p.ensureLoaded(); err != nil {
		return nil, err
	}

	rawEnv, exists := p.raw.Environments[environment]
	if !exists {
		return nil, fmt.Errorf("environment %q is not defined in %s", environment, p.filename)
	}

	cfg := &config.Config{
		Project:      p.raw.Project,
		Region:       p.raw.Region,
		NameTemplate: p.nameTemplate(),
		Tags:         copyStringMap(p.raw.Tags),
		Environment:  p.resolveEnvironment(environment, rawEnv),
	}

	for _, rawStack := range p.raw.Stacks {
		stack, err := p.resolveStack(rawStack, environment)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stack %s: %w", rawStack.Key, err)
		}
		cfg.Stacks = append(cfg.Stacks, stack)
	}

	return cfg, nil
}

// ListEnvironments returns the names of all environments defined in the file
func (p *Provider) ListEnvironments() ([]string, error) {
	if err := p.ensureLoaded(); err != nil {
		return nil, err
	}

	environments := make([]string, 0, len(p.raw.Environments))
	for name := range p.raw.Environments {
		environments = append(environments, name)
	}
	sort.Strings(environments)

	return environments, nil
}

// Validate checks the configuration file for structural problems
func (p *Provider) Validate() error {
	if err := p.ensureLoaded(); err != nil {
		return err
	}

	if p.raw.Project == "" {
		return fmt.Errorf("configuration is missing a project name")
	}

	if len(p.raw.Environments) == 0 {
		return fmt.Errorf("configuration defines no environments")
	}

	seen := make(map[string]bool)
	for i, stack := range p.raw.Stacks {
		if stack.Key == "" {
			return fmt.Errorf("stack at position %d has no key", i)
		}
		if seen[stack.Key] {
			return fmt.Errorf("duplicate stack key %q", stack.Key)
		}
		seen[stack.Key] = true

		if stack.Template == "" {
			return fmt.Errorf("stack %s has no template", stack.Key)
		}
		templatePath := p.resolvePath(stack.Template)
		if _, err := os.Stat(templatePath); err != nil {
			return fmt.Errorf("stack %s template not found at %s: %w", stack.Key, templatePath, err)
		}

		for envName := range stack.Environments {
			if _, exists := p.raw.Environments[envName]; !exists {
				return fmt.Errorf("stack %s overrides undefined environment %q", stack.Key, envName)
			}
		}
	}

	return nil
}

// ensureLoaded reads and parses the configuration file if not already loaded
func (p *Provider) ensureLoaded() error {
	if p.raw != nil {
		return nil
	}

	data, err := os.ReadFile(p.filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", p.filename, err)
	}

	raw := &Config{}
	if err := yaml.Unmarshal(data, raw); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", p.filename, err)
	}

	p.raw = raw
	return nil
}

// nameTemplate returns the configured stack naming template, if any
func (p *Provider) nameTemplate() string {
	if p.raw.Naming == nil {
		return ""
	}
	return p.raw.Naming.StackName
}

// resolveEnvironment builds the effective environment configuration,
// applying global defaults for region and tags
func (p *Provider) resolveEnvironment(name string, env *Environment) *config.EnvironmentConfig {
	region := env.Region
	if region == "" {
		region = p.raw.Region
	}

	return &config.EnvironmentConfig{
		Name:       name,
		Account:    env.Account,
		Region:     region,
		Tags:       mergeTags(p.raw.Tags, env.Tags),
		Parameters: copyStringMap(env.Parameters),
	}
}

// resolveStack builds the effective stack configuration for an environment,
// applying any environment-specific overrides
func (p *Provider) resolveStack(stack *Stack, environment string) (*config.StackConfig, error) {
	resolved := &config.StackConfig{
		Key:          stack.Key,
		Scope:        stack.Scope,
		Template:     p.resolvePath(stack.Template),
		Parameters:   make(map[string]*config.ParameterValue),
		Tags:         copyStringMap(stack.Tags),
		DependsOn:    copyStringSlice(stack.DependsOn),
		Capabilities: copyStringSlice(stack.Capabilities),
		Stateful:     stack.Stateful,
	}

	for name, value := range stack.Parameters {
		converted := value.ToConfigParameterValue()
		if converted == nil {
			return nil, fmt.Errorf("parameter %s has no usable value", name)
		}
		resolved.Parameters[name] = converted
	}

	for _, file := range stack.ParameterFiles {
		resolved.ParameterFiles = append(resolved.ParameterFiles, p.resolvePath(file))
	}

	override, exists := stack.Environments[environment]
	if !exists || override == nil {
		return resolved, nil
	}

	for name, value := range override.Parameters {
		converted := value.ToConfigParameterValue()
		if converted == nil {
			return nil, fmt.Errorf("parameter %s has no usable value", name)
		}
		resolved.Parameters[name] = converted
	}

	// Override files are appended so they win over the stack-level files
	for _, file := range override.ParameterFiles {
		resolved.ParameterFiles = append(resolved.ParameterFiles, p.resolvePath(file))
	}

	for key, value := range override.Tags {
		if resolved.Tags == nil {
			resolved.Tags = make(map[string]string)
		}
		resolved.Tags[key] = value
	}

	if override.Stateful != nil {
		resolved.Stateful = *override.Stateful
	}

	return resolved, nil
}

// resolvePath resolves a path from the configuration file relative to the
// directory containing the file. Absolute paths and file:// URIs pointing
// at absolute paths are returned as-is.
func (p *Provider) resolvePath(path string) string {
	path = strings.TrimPrefix(path, "file://")

	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(filepath.Dir(p.filename), path)
}

// copyStringMap creates a copy of a string map, returning nil for nil input
func copyStringMap(original map[string]string) map[string]string {
	if original == nil {
		return nil
	}

	copied := make(map[string]string, len(original))
	for key, value := range original {
		copied[key] = value
	}
	return copied
}

// copyStringSlice creates a copy of a string slice, returning nil for nil input
func copyStringSlice(original []string) []string {
	if original == nil {
		return nil
	}

	copied := make([]string, len(original))
	copy(copied, original)
	return copied
}

// mergeTags merges tag maps with later maps taking precedence
func mergeTags(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for key, value := range m {
			merged[key] = value
		}
	}
	return merged
}
