/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package orchestrate coordinates stack operations across an environment:
// deploys run forward through the configured order and stop at the first
// failure, destroys run in reverse and keep going, status sweeps never
// abort.
package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/worx/groundwork/internal/model"
	"github.com/worx/groundwork/internal/operator"
	"github.com/worx/groundwork/internal/prompt"
	"github.com/worx/groundwork/internal/registry"
	"github.com/worx/groundwork/internal/resolve"
)

// Orchestrator coordinates operations across the stacks of an environment
type Orchestrator interface {
	// DeployAll deploys every stack in scope, in configured order,
	// stopping at the first failure
	DeployAll(ctx context.Context, scope string) (*RunReport, error)

	// DeployOne deploys a single stack by key
	DeployOne(ctx context.Context, key string) (*RunReport, error)

	// DestroyAll destroys every stack in scope in reverse order,
	// continuing past failures
	DestroyAll(ctx context.Context, scope string) (*RunReport, error)

	// DestroyOne destroys a single stack by key
	DestroyOne(ctx context.Context, key string) (*RunReport, error)

	// Status reports the condensed status of every stack in scope
	Status(ctx context.Context, scope string) (*RunReport, error)
}

// EnvironmentOrchestrator implements Orchestrator for one environment
type EnvironmentOrchestrator struct {
	registry    *registry.Registry
	resolver    resolve.Resolver
	operator    operator.Operator
	prompter    prompt.Prompter
	autoApprove bool
	logger      *slog.Logger
}

// NewEnvironmentOrchestrator creates an orchestrator for an environment
func NewEnvironmentOrchestrator(reg *registry.Registry, resolver resolve.Resolver, op operator.Operator, logger *slog.Logger) *EnvironmentOrchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnvironmentOrchestrator{
		registry: reg,
		resolver: resolver,
		operator: op,
		prompter: prompt.GetDefaultPrompter(),
		logger:   logger,
	}
}

// SetPrompter replaces the confirmation prompter, primarily for testing
func (o *EnvironmentOrchestrator) SetPrompter(p prompt.Prompter) {
	o.prompter = p
}

// SetAutoApprove disables the confirmation prompt for stateful stacks
func (o *EnvironmentOrchestrator) SetAutoApprove(autoApprove bool) {
	o.autoApprove = autoApprove
}

// DeployAll deploys every stack in scope in configured order
func (o *EnvironmentOrchestrator) DeployAll(ctx context.Context, scope string) (*RunReport, error) {
	return o.deploy(ctx, o.registry.Keys(scope), scope)
}

// DeployOne deploys a single stack
func (o *EnvironmentOrchestrator) DeployOne(ctx context.Context, key string) (*RunReport, error) {
	return o.deploy(ctx, []string{key}, "")
}

// DestroyAll destroys every stack in scope in reverse order
func (o *EnvironmentOrchestrator) DestroyAll(ctx context.Context, scope string) (*RunReport, error) {
	return o.destroy(ctx, o.registry.Keys(scope), scope)
}

// DestroyOne destroys a single stack
func (o *EnvironmentOrchestrator) DestroyOne(ctx context.Context, key string) (*RunReport, error) {
	return o.destroy(ctx, []string{key}, "")
}

// Status reports the status of every stack in scope. The sweep works from
// registry definitions alone so a broken template file cannot prevent it,
// and single-stack query problems show up as UNKNOWN rows instead of
// aborting the sweep.
func (o *EnvironmentOrchestrator) Status(ctx context.Context, scope string) (*RunReport, error) {
	env := o.registry.Environment()
	report := newRunReport(env.Name, operator.ActionStatus, scope)

	for _, definition := range o.registry.List(scope) {
		stack := &model.Stack{
			Key:  definition.Key,
			Name: definition.StackName,
			Environment: &model.Environment{
				Name:    env.Name,
				Account: env.Account,
				Region:  env.Region,
			},
			Stateful: definition.Stateful,
		}
		report.add(o.operator.QueryStatus(ctx, stack))
	}

	return report.finish(), nil
}

// deploy runs deploys forward through the resolved order, stopping at the
// first failure and marking the stacks after it as skipped
func (o *EnvironmentOrchestrator) deploy(ctx context.Context, keys []string, scope string) (*RunReport, error) {
	resolved, err := o.resolver.ResolveStacks(ctx, keys)
	if err != nil {
		return nil, err
	}

	report := newRunReport(resolved.Environment, operator.ActionDeploy, scope)
	o.logger.Info("starting deploy",
		"run", report.ID, "environment", report.Environment, "stacks", len(resolved.Stacks))

	for i, stack := range resolved.Stacks {
		if ctx.Err() != nil {
			o.skipRemaining(report, resolved.Stacks[i:], operator.ActionDeploy, "interrupted before this stack was attempted")
			break
		}

		fmt.Printf("Deploying stack %s (%s)\n", stack.Key, stack.Name)
		result := o.operator.Deploy(ctx, stack)
		report.add(result)
		o.logResult(result)

		if result.Outcome == operator.OutcomeFailure {
			o.skipRemaining(report, resolved.Stacks[i+1:], operator.ActionDeploy,
				fmt.Sprintf("not attempted because stack %s failed", stack.Key))
			break
		}
	}

	return report.finish(), nil
}

// destroy runs destroys in reverse order, continuing past failures so that
// as much of the environment as possible is torn down. Stateful stacks are
// confirmed before anything is touched.
func (o *EnvironmentOrchestrator) destroy(ctx context.Context, keys []string, scope string) (*RunReport, error) {
	resolved, err := o.resolver.ResolveStacks(ctx, keys)
	if err != nil {
		return nil, err
	}

	if err := o.confirmStatefulDestruction(resolved.Stacks); err != nil {
		return nil, err
	}

	report := newRunReport(resolved.Environment, operator.ActionDestroy, scope)
	o.logger.Info("starting destroy",
		"run", report.ID, "environment", report.Environment, "stacks", len(resolved.Stacks))

	for i := len(resolved.Stacks) - 1; i >= 0; i-- {
		stack := resolved.Stacks[i]

		if ctx.Err() != nil {
			remaining := make([]*model.Stack, 0, i+1)
			for j := i; j >= 0; j-- {
				remaining = append(remaining, resolved.Stacks[j])
			}
			o.skipRemaining(report, remaining, operator.ActionDestroy, "interrupted before this stack was attempted")
			break
		}

		fmt.Printf("Destroying stack %s (%s)\n", stack.Key, stack.Name)
		result := o.operator.Destroy(ctx, stack)
		report.add(result)
		o.logResult(result)
	}

	return report.finish(), nil
}

// confirmStatefulDestruction prompts before any stateful stack is deleted.
// Declining aborts the whole run before the first operator call.
func (o *EnvironmentOrchestrator) confirmStatefulDestruction(stacks []*model.Stack) error {
	if o.autoApprove {
		return nil
	}

	var statefulKeys []string
	for _, stack := range stacks {
		if stack.Stateful {
			statefulKeys = append(statefulKeys, stack.Key)
		}
	}
	if len(statefulKeys) == 0 {
		return nil
	}

	message := fmt.Sprintf("This will destroy stateful stacks (%s) and their data. Continue?",
		strings.Join(statefulKeys, ", "))

	confirmed, err := o.prompter.Confirm(message)
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		return &ConfirmationError{StackKeys: statefulKeys}
	}
	return nil
}

// skipRemaining records skipped results for stacks that were not attempted
func (o *EnvironmentOrchestrator) skipRemaining(report *RunReport, stacks []*model.Stack, action operator.Action, detail string) {
	for _, stack := range stacks {
		report.add(&operator.Result{
			StackKey:    stack.Key,
			StackName:   stack.Name,
			Action:      action,
			Outcome:     operator.OutcomeSkipped,
			FinalStatus: operator.StatusUnknown,
			Detail:      detail,
		})
	}
}

func (o *EnvironmentOrchestrator) logResult(result *operator.Result) {
	if result.Outcome == operator.OutcomeFailure {
		o.logger.Warn("stack operation failed",
			"action", result.Action, "stack", result.StackKey,
			"status", result.FinalStatus, "detail", result.Detail, "error", result.Err)
		return
	}
	o.logger.Info("stack operation finished",
		"action", result.Action, "stack", result.StackKey,
		"outcome", result.Outcome, "status", result.FinalStatus)
}
