/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package resolve turns registry definitions into deployable stacks by
// reading template bodies and assembling parameter values from their
// configured sources.
package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/worx/groundwork/internal/model"
	"github.com/worx/groundwork/internal/registry"
)

// DefaultCapabilities is applied when a stack declares no capabilities
var DefaultCapabilities = []string{"CAPABILITY_IAM"}

// Resolver resolves stack definitions into deployable stacks
type Resolver interface {
	ResolveStack(ctx context.Context, key string) (*model.Stack, error)
	ResolveStacks(ctx context.Context, keys []string) (*ResolvedStacks, error)
}

// ResolvedStacks is a set of stacks resolved together, ordered for deployment
type ResolvedStacks struct {
	Environment     string
	Stacks          []*model.Stack
	DeploymentOrder []string
}

// StackResolver implements Resolver against a registry
type StackResolver struct {
	registry *registry.Registry
	files    FileSystemResolver
}

// NewStackResolver creates a resolver for the given registry
func NewStackResolver(reg *registry.Registry) *StackResolver {
	return &StackResolver{
		registry: reg,
		files:    NewOSFileSystemResolver(),
	}
}

// SetFileSystemResolver replaces the file reader, primarily for testing
func (r *StackResolver) SetFileSystemResolver(files FileSystemResolver) {
	r.files = files
}

// ResolveStack resolves a single stack by key
func (r *StackResolver) ResolveStack(ctx context.Context, key string) (*model.Stack, error) {
	definition, err := r.registry.Resolve(key)
	if err != nil {
		return nil, err
	}

	return r.buildStack(definition)
}

// ResolveStacks resolves a set of stacks and orders them for deployment.
// The deployment order is the registry order restricted to the requested
// keys; duplicates are collapsed.
func (r *StackResolver) ResolveStacks(ctx context.Context, keys []string) (*ResolvedStacks, error) {
	definitions := make([]*registry.Definition, 0, len(keys))
	seen := make(map[string]bool)

	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		definition, err := r.registry.Resolve(key)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, definition)
	}

	sort.SliceStable(definitions, func(i, j int) bool {
		return r.registry.Precedes(definitions[i].Key, definitions[j].Key)
	})

	resolved := &ResolvedStacks{
		Environment: r.registry.Environment().Name,
	}

	for _, definition := range definitions {
		stack, err := r.buildStack(definition)
		if err != nil {
			return nil, err
		}
		resolved.Stacks = append(resolved.Stacks, stack)
		resolved.DeploymentOrder = append(resolved.DeploymentOrder, definition.Key)
	}

	return resolved, nil
}

// buildStack assembles a deployable stack from a definition. The template
// body is read verbatim: groundwork never rewrites CloudFormation templates.
func (r *StackResolver) buildStack(definition *registry.Definition) (*model.Stack, error) {
	body, err := r.files.ReadFile(definition.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to read template for stack %s: %w", definition.Key, err)
	}

	parameters, outputRefs, err := r.resolveParameters(definition)
	if err != nil {
		return nil, err
	}

	env := r.registry.Environment()

	return &model.Stack{
		Key:  definition.Key,
		Name: definition.StackName,
		Environment: &model.Environment{
			Name:    env.Name,
			Account: env.Account,
			Region:  env.Region,
			Tags:    copyStringMap(env.Tags),
		},
		TemplateBody: body,
		Parameters:   parameters,
		OutputRefs:   outputRefs,
		Tags:         copyStringMap(definition.Tags),
		Capabilities: capabilities(definition),
		DependsOn:    copyStringSlice(definition.DependsOn),
		Stateful:     definition.Stateful,
	}, nil
}

// capabilities returns the stack's capabilities, falling back to the default
func capabilities(definition *registry.Definition) []string {
	if len(definition.Capabilities) > 0 {
		return copyStringSlice(definition.Capabilities)
	}
	return copyStringSlice(DefaultCapabilities)
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
