/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package operator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/cenkalti/backoff/v4"

	"github.com/worx/groundwork/internal/aws"
)

const (
	// maxTransientRetries bounds retries of throttled describe calls
	maxTransientRetries = 5

	changeSetPollInterval = 2 * time.Second
	changeSetTimeout      = 5 * time.Minute
)

// waitForStack polls a stack until it leaves IN_PROGRESS, the timeout
// expires or the context is cancelled. It returns the last observed status
// and status reason; on timeout or cancellation the returned error says why
// waiting stopped while the status reports what was last seen.
func (o *StackOperator) waitForStack(ctx context.Context, ops aws.CloudFormationOperations, stackName string, start time.Time) (StackStatus, string, error) {
	lastStatus := StatusInProgress
	lastReason := ""
	eventsSince := start

	for {
		state, err := o.describeWithRetry(ctx, ops, stackName)
		if err != nil {
			return lastStatus, lastReason, err
		}

		lastStatus = classifyState(state)
		lastReason = state.StatusReason

		if state.Exists {
			eventsSince = o.streamEvents(ctx, ops, stackName, eventsSince)
		}

		if lastStatus != StatusInProgress {
			return lastStatus, lastReason, nil
		}

		if time.Since(start) >= o.timeout {
			return lastStatus, lastReason, &TimeoutError{StackName: stackName, After: o.timeout}
		}

		select {
		case <-ctx.Done():
			return lastStatus, lastReason, ctx.Err()
		case <-time.After(o.pollInterval):
		}
	}
}

// streamEvents forwards events newer than since to the event sink and
// returns the new boundary. Event fetch problems are logged, not raised:
// losing event output must not fail a running operation.
func (o *StackOperator) streamEvents(ctx context.Context, ops aws.CloudFormationOperations, stackName string, since time.Time) time.Time {
	if o.eventSink == nil {
		return since
	}

	events, err := ops.DescribeStackEvents(ctx, stackName, since)
	if err != nil {
		o.logger.Debug("failed to fetch stack events", "stack", stackName, "error", err)
		return since
	}

	for _, event := range events {
		o.eventSink(event)
		if event.Timestamp.After(since) {
			since = event.Timestamp
		}
	}
	return since
}

// describeWithRetry describes a stack, retrying transient API errors with
// exponential backoff
func (o *StackOperator) describeWithRetry(ctx context.Context, ops aws.CloudFormationOperations, stackName string) (*aws.StackState, error) {
	policy := backoff.NewExponentialBackOff()

	for attempt := 0; ; attempt++ {
		state, err := ops.DescribeStackState(ctx, stackName)
		if err == nil {
			return state, nil
		}
		if !isTransient(err) || attempt >= maxTransientRetries {
			return nil, err
		}

		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			return nil, err
		}

		o.logger.Debug("retrying stack describe after transient error",
			"stack", stackName, "attempt", attempt+1, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// waitForChangeSet polls a changeset until creation settles. A FAILED
// changeset is returned without error so the caller can inspect the reason.
func (o *StackOperator) waitForChangeSet(ctx context.Context, ops aws.CloudFormationOperations, changeSetID string) (*aws.ChangeSet, error) {
	deadline := time.Now().Add(changeSetTimeout)

	for {
		changeSet, err := ops.DescribeChangeSet(ctx, changeSetID)
		if err != nil {
			return nil, err
		}

		switch changeSet.Status {
		case types.ChangeSetStatusCreateComplete, types.ChangeSetStatusFailed:
			return changeSet, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("changeset %s did not settle within %s", changeSetID, changeSetTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(changeSetPollInterval):
		}
	}
}

// contextError returns err when it is a cancellation or deadline error
func contextError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
