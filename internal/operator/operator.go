/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package operator performs lifecycle operations on individual stacks:
// deploy, destroy and status queries. The operator owns all waiting and
// polling; callers receive a settled result per stack.
package operator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/google/uuid"

	"github.com/worx/groundwork/internal/aws"
	"github.com/worx/groundwork/internal/model"
)

const (
	// DefaultPollInterval is how often stack state is checked while waiting
	DefaultPollInterval = 5 * time.Second

	// DefaultTimeout bounds how long a single stack operation is awaited
	DefaultTimeout = 40 * time.Minute
)

// Operator performs operations on individual stacks
type Operator interface {
	// Deploy creates the stack if it does not exist, otherwise updates it
	// through a changeset. Blocks until the operation settles.
	Deploy(ctx context.Context, stack *model.Stack) *Result

	// Destroy deletes the stack. Destroying a stack that does not exist
	// succeeds without doing anything.
	Destroy(ctx context.Context, stack *model.Stack) *Result

	// QueryStatus reports the stack's current condensed status. Query
	// problems surface as StatusUnknown, never as a failed result.
	QueryStatus(ctx context.Context, stack *model.Stack) *Result
}

// Option configures a StackOperator
type Option func(*StackOperator)

// WithPollInterval sets how often stack state is polled while waiting
func WithPollInterval(interval time.Duration) Option {
	return func(o *StackOperator) {
		o.pollInterval = interval
	}
}

// WithTimeout bounds how long a single stack operation is awaited
func WithTimeout(timeout time.Duration) Option {
	return func(o *StackOperator) {
		o.timeout = timeout
	}
}

// WithEventSink registers a callback that receives stack events observed
// while waiting for an operation to settle
func WithEventSink(sink func(aws.StackEvent)) Option {
	return func(o *StackOperator) {
		o.eventSink = sink
	}
}

// WithLogger sets the logger used for operational messages
func WithLogger(logger *slog.Logger) Option {
	return func(o *StackOperator) {
		o.logger = logger
	}
}

// StackOperator implements Operator against CloudFormation
type StackOperator struct {
	clientFactory aws.ClientFactory
	pollInterval  time.Duration
	timeout       time.Duration
	eventSink     func(aws.StackEvent)
	logger        *slog.Logger
}

// NewStackOperator creates an operator using the given client factory
func NewStackOperator(clientFactory aws.ClientFactory, options ...Option) *StackOperator {
	operator := &StackOperator{
		clientFactory: clientFactory,
		pollInterval:  DefaultPollInterval,
		timeout:       DefaultTimeout,
		logger:        slog.Default(),
	}

	for _, option := range options {
		option(operator)
	}

	return operator
}

// Deploy creates or updates a stack and waits for the operation to settle
func (o *StackOperator) Deploy(ctx context.Context, stack *model.Stack) *Result {
	result := &Result{StackKey: stack.Key, StackName: stack.Name, Action: ActionDeploy}

	ops, err := o.operationsFor(ctx, stack)
	if err != nil {
		return fail(result, StatusUnknown, "failed to create AWS client", err)
	}

	input, err := o.deployInput(ctx, ops, stack)
	if err != nil {
		return fail(result, StatusUnknown, "failed to resolve output references", err)
	}

	state, err := ops.DescribeStackState(ctx, stack.Name)
	if err != nil {
		return fail(result, StatusUnknown, "failed to query stack state", err)
	}

	if !state.Exists {
		return o.createStack(ctx, ops, stack, input, result)
	}

	switch {
	case classifyStackStatus(state.Status) == StatusInProgress:
		return fail(result, StatusInProgress,
			fmt.Sprintf("an operation is already in progress (%s)", state.Status), nil)

	case state.Status == types.StackStatusRollbackComplete:
		return fail(result, StatusFailed,
			"stack is in ROLLBACK_COMPLETE and must be destroyed before it can be deployed again", nil)
	}

	return o.updateStack(ctx, ops, stack, input, result)
}

// Destroy deletes a stack and waits for the deletion to settle
func (o *StackOperator) Destroy(ctx context.Context, stack *model.Stack) *Result {
	result := &Result{StackKey: stack.Key, StackName: stack.Name, Action: ActionDestroy}

	ops, err := o.operationsFor(ctx, stack)
	if err != nil {
		return fail(result, StatusUnknown, "failed to create AWS client", err)
	}

	state, err := ops.DescribeStackState(ctx, stack.Name)
	if err != nil {
		return fail(result, StatusUnknown, "failed to query stack state", err)
	}

	if !state.Exists {
		return succeed(result, StatusNotExists, "stack does not exist, nothing to destroy")
	}

	if classifyStackStatus(state.Status) == StatusInProgress {
		return fail(result, StatusInProgress,
			fmt.Sprintf("an operation is already in progress (%s)", state.Status), nil)
	}

	o.logger.Info("deleting stack", "stack", stack.Name)
	start := time.Now()

	if err := ops.DeleteStack(ctx, stack.Name); err != nil {
		return fail(result, classifyStackStatus(state.Status), "failed to start stack deletion", err)
	}

	status, reason, err := o.waitForStack(ctx, ops, stack.Name, start)
	if err != nil {
		return o.failFromWait(result, status, err)
	}

	if status == StatusNotExists {
		return succeed(result, status, "stack deleted")
	}
	return fail(result, status, deletionFailureDetail(reason), nil)
}

// QueryStatus reports the current condensed status of a stack. Errors are
// logged and reported as StatusUnknown: a status sweep over many stacks
// must never abort because one of them cannot be described.
func (o *StackOperator) QueryStatus(ctx context.Context, stack *model.Stack) *Result {
	result := &Result{
		StackKey:  stack.Key,
		StackName: stack.Name,
		Action:    ActionStatus,
		Outcome:   OutcomeSuccess,
	}

	ops, err := o.operationsFor(ctx, stack)
	if err != nil {
		o.logger.Warn("failed to query stack status", "stack", stack.Name, "error", err)
		result.FinalStatus = StatusUnknown
		result.Detail = "failed to create AWS client"
		result.Err = err
		return result
	}

	state, err := ops.DescribeStackState(ctx, stack.Name)
	if err != nil {
		o.logger.Warn("failed to query stack status", "stack", stack.Name, "error", err)
		result.FinalStatus = StatusUnknown
		result.Detail = "failed to query stack state"
		result.Err = err
		return result
	}

	if !state.Exists {
		result.FinalStatus = StatusNotExists
		result.Detail = "stack does not exist"
		return result
	}

	result.FinalStatus = classifyStackStatus(state.Status)
	result.Detail = string(state.Status)
	if state.StatusReason != "" {
		result.Detail = fmt.Sprintf("%s: %s", state.Status, state.StatusReason)
	}
	return result
}

// createStack starts creation of a new stack and waits for it to settle
func (o *StackOperator) createStack(ctx context.Context, ops aws.CloudFormationOperations, stack *model.Stack, input aws.DeployInput, result *Result) *Result {
	o.logger.Info("creating stack", "stack", stack.Name)
	start := time.Now()

	if err := ops.CreateStack(ctx, input); err != nil {
		return fail(result, StatusNotExists, "failed to start stack creation", err)
	}

	return o.settleDeploy(ctx, ops, stack.Name, result, start)
}

// updateStack updates an existing stack through a changeset. A changeset
// that contains no changes is deleted and the deploy is reported as skipped.
func (o *StackOperator) updateStack(ctx context.Context, ops aws.CloudFormationOperations, stack *model.Stack, input aws.DeployInput, result *Result) *Result {
	changeSetName := "groundwork-deploy-" + uuid.NewString()
	o.logger.Info("creating changeset", "stack", stack.Name, "changeset", changeSetName)
	start := time.Now()

	changeSetID, err := ops.CreateChangeSet(ctx, input, changeSetName)
	if err != nil {
		return fail(result, StatusReady, "failed to create changeset", err)
	}

	changeSet, err := o.waitForChangeSet(ctx, ops, changeSetID)
	if err != nil {
		o.deleteChangeSetQuietly(ctx, ops, changeSetID)
		return fail(result, StatusReady, "changeset did not settle", err)
	}

	if changeSet.Status == types.ChangeSetStatusFailed {
		o.deleteChangeSetQuietly(ctx, ops, changeSetID)

		if isNoChangesReason(changeSet.StatusReason) {
			return skip(result, StatusReady, "no changes to deploy")
		}
		return fail(result, StatusReady,
			fmt.Sprintf("changeset failed: %s", changeSet.StatusReason), nil)
	}

	o.logger.Info("executing changeset",
		"stack", stack.Name, "changes", len(changeSet.Changes))

	if err := ops.ExecuteChangeSet(ctx, changeSetID); err != nil {
		return fail(result, StatusReady, "failed to execute changeset", err)
	}

	return o.settleDeploy(ctx, ops, stack.Name, result, start)
}

// settleDeploy waits for a create or update to finish and maps the terminal
// state onto the result
func (o *StackOperator) settleDeploy(ctx context.Context, ops aws.CloudFormationOperations, stackName string, result *Result, start time.Time) *Result {
	status, reason, err := o.waitForStack(ctx, ops, stackName, start)
	if err != nil {
		return o.failFromWait(result, status, err)
	}

	switch status {
	case StatusReady:
		return succeed(result, status, "deployment complete")
	case StatusNotExists:
		return fail(result, status, "stack no longer exists", nil)
	default:
		return fail(result, status, deploymentFailureDetail(reason), nil)
	}
}

// failFromWait maps waiting errors onto a failed result. The status is the
// last state observed before waiting stopped.
func (o *StackOperator) failFromWait(result *Result, status StackStatus, err error) *Result {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return fail(result, status, fmt.Sprintf("timed out after %s", timeoutErr.After), err)
	}
	if contextError(err) != nil {
		return fail(result, status, "operation interrupted", err)
	}
	return fail(result, StatusUnknown, "failed to query stack state while waiting", err)
}

// deployInput assembles the CloudFormation input for a stack, filling
// output-backed parameters from the live outputs of their source stacks
func (o *StackOperator) deployInput(ctx context.Context, ops aws.CloudFormationOperations, stack *model.Stack) (aws.DeployInput, error) {
	parameters := make(map[string]string, len(stack.Parameters)+len(stack.OutputRefs))
	for name, value := range stack.Parameters {
		parameters[name] = value
	}

	outputsByStack := make(map[string]map[string]string)
	for name, ref := range stack.OutputRefs {
		outputs, cached := outputsByStack[ref.StackName]
		if !cached {
			var err error
			outputs, err = ops.GetStackOutputs(ctx, ref.StackName)
			if err != nil {
				return aws.DeployInput{}, fmt.Errorf("failed to read outputs of stack %s: %w", ref.StackName, err)
			}
			outputsByStack[ref.StackName] = outputs
		}

		value, exists := outputs[ref.OutputKey]
		if !exists {
			return aws.DeployInput{}, fmt.Errorf("stack %s has no output %s (needed for parameter %s)",
				ref.StackName, ref.OutputKey, name)
		}
		parameters[name] = value
	}

	return aws.DeployInput{
		StackName:    stack.Name,
		TemplateBody: stack.TemplateBody,
		Parameters:   parameters,
		Tags:         stack.Tags,
		Capabilities: stack.Capabilities,
	}, nil
}

// operationsFor returns CloudFormation operations for the stack's region
func (o *StackOperator) operationsFor(ctx context.Context, stack *model.Stack) (aws.CloudFormationOperations, error) {
	region := ""
	if stack.Environment != nil {
		region = stack.Environment.Region
	}
	return o.clientFactory.GetCloudFormationOperations(ctx, region)
}

// deleteChangeSetQuietly removes a changeset that will not be executed
func (o *StackOperator) deleteChangeSetQuietly(ctx context.Context, ops aws.CloudFormationOperations, changeSetID string) {
	if err := ops.DeleteChangeSet(ctx, changeSetID); err != nil {
		o.logger.Debug("failed to delete changeset", "changeset", changeSetID, "error", err)
	}
}

func deploymentFailureDetail(reason string) string {
	if reason == "" {
		return "deployment failed"
	}
	return fmt.Sprintf("deployment failed: %s", reason)
}

func deletionFailureDetail(reason string) string {
	if reason == "" {
		return "deletion failed"
	}
	return fmt.Sprintf("deletion failed: %s", reason)
}
