/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package registry assembles resolved configuration into an ordered,
// validated collection of stack definitions. The registry is read-only:
// it performs no AWS calls and no file reads beyond what the configuration
// provider already did.
package registry

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/worx/groundwork/internal/config"
)

// DefaultNameTemplate is used to derive physical stack names when the
// configuration does not set naming.stack_name
const DefaultNameTemplate = "{{ .Project }}-{{ .Environment }}-{{ .Stack }}"

// Definition is a fully resolved stack definition for one environment.
// Definitions are immutable once the registry is built.
type Definition struct {
	Key            string
	Scope          string
	StackName      string
	Template       string
	Parameters     map[string]*config.ParameterValue
	ParameterFiles []string
	Tags           map[string]string
	DependsOn      []string
	Capabilities   []string
	Stateful       bool
}

// Registry holds the ordered stack definitions for a single environment
type Registry struct {
	project     string
	environment *config.EnvironmentConfig
	definitions []*Definition
	index       map[string]int
}

// nameData is the data passed to the stack name template
type nameData struct {
	Project     string
	Environment string
	Stack       string
}

// Load reads configuration for an environment and builds a registry from it
func Load(ctx context.Context, provider config.ConfigProvider, environment string) (*Registry, error) {
	cfg, err := provider.LoadConfig(ctx, environment)
	if err != nil {
		return nil, &ValidationError{Reason: "failed to load configuration", Err: err}
	}

	return New(cfg)
}

// New builds a registry from resolved configuration, validating stack keys,
// dependency ordering and physical name uniqueness
func New(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, &ValidationError{Reason: "configuration is nil"}
	}
	if cfg.Environment == nil {
		return nil, &ValidationError{Reason: "configuration has no environment"}
	}

	nameTemplate := cfg.NameTemplate
	if nameTemplate == "" {
		nameTemplate = DefaultNameTemplate
	}

	tmpl, err := template.New("stack-name").Funcs(sprig.TxtFuncMap()).Parse(nameTemplate)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid stack name template %q", nameTemplate), Err: err}
	}

	reg := &Registry{
		project:     cfg.Project,
		environment: cfg.Environment,
		index:       make(map[string]int),
	}
	names := make(map[string]string)

	for i, stack := range cfg.Stacks {
		if stack.Key == "" {
			return nil, &ValidationError{Reason: fmt.Sprintf("stack at position %d has no key", i)}
		}
		if _, exists := reg.index[stack.Key]; exists {
			return nil, &ValidationError{Reason: fmt.Sprintf("duplicate stack key %q", stack.Key)}
		}

		// Dependencies may only point at stacks defined earlier in the file,
		// which makes the file order a valid deployment order
		for _, dep := range stack.DependsOn {
			if _, exists := reg.index[dep]; !exists {
				return nil, &ValidationError{
					Reason: fmt.Sprintf("stack %s depends on %q which is not defined before it", stack.Key, dep),
				}
			}
		}

		stackName, err := renderStackName(tmpl, nameData{
			Project:     cfg.Project,
			Environment: cfg.Environment.Name,
			Stack:       stack.Key,
		})
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("failed to render name for stack %s", stack.Key), Err: err}
		}
		if existing, taken := names[stackName]; taken {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("stacks %s and %s both resolve to name %q", existing, stack.Key, stackName),
			}
		}
		names[stackName] = stack.Key

		definition := &Definition{
			Key:            stack.Key,
			Scope:          stack.Scope,
			StackName:      stackName,
			Template:       stack.Template,
			Parameters:     stack.Parameters,
			ParameterFiles: stack.ParameterFiles,
			Tags:           mergeTags(cfg.Environment.Tags, stack.Tags),
			DependsOn:      stack.DependsOn,
			Capabilities:   stack.Capabilities,
			Stateful:       stack.Stateful,
		}

		reg.index[stack.Key] = len(reg.definitions)
		reg.definitions = append(reg.definitions, definition)
	}

	return reg, nil
}

// List returns definitions in deployment order. An empty scope selects all
// stacks, otherwise only stacks with a matching scope are returned.
func (r *Registry) List(scope string) []*Definition {
	if scope == "" {
		result := make([]*Definition, len(r.definitions))
		copy(result, r.definitions)
		return result
	}

	var result []*Definition
	for _, definition := range r.definitions {
		if definition.Scope == scope {
			result = append(result, definition)
		}
	}
	return result
}

// Keys returns stack keys in deployment order, filtered by scope
func (r *Registry) Keys(scope string) []string {
	definitions := r.List(scope)
	keys := make([]string, len(definitions))
	for i, definition := range definitions {
		keys[i] = definition.Key
	}
	return keys
}

// Resolve returns the definition for a stack key
func (r *Registry) Resolve(key string) (*Definition, error) {
	position, exists := r.index[key]
	if !exists {
		return nil, &UnknownStackKeyError{Key: key}
	}
	return r.definitions[position], nil
}

// Environment returns the environment this registry was built for
func (r *Registry) Environment() *config.EnvironmentConfig {
	return r.environment
}

// Project returns the project name
func (r *Registry) Project() string {
	return r.project
}

// Precedes reports whether stack a is defined before stack b.
// Unknown keys never precede anything.
func (r *Registry) Precedes(a, b string) bool {
	posA, okA := r.index[a]
	posB, okB := r.index[b]
	return okA && okB && posA < posB
}

// renderStackName executes the name template and rejects empty results
func renderStackName(tmpl *template.Template, data nameData) (string, error) {
	var builder strings.Builder
	if err := tmpl.Execute(&builder, data); err != nil {
		return "", err
	}

	name := strings.TrimSpace(builder.String())
	if name == "" {
		return "", fmt.Errorf("name template produced an empty name")
	}

	return name, nil
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
