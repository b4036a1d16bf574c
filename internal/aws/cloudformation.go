/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package aws

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"golang.org/x/time/rate"
)

// Read calls are paced below the CloudFormation API throttling limits so
// that polling several stacks at once does not exhaust the quota
const (
	describeInterval = 200 * time.Millisecond
	describeBurst    = 4
)

// DefaultCloudFormationOperations implements CloudFormationOperations using
// the AWS SDK
type DefaultCloudFormationOperations struct {
	client  CloudFormationClient
	limiter *rate.Limiter
}

// NewCloudFormationOperations creates operations backed by the given client
func NewCloudFormationOperations(client CloudFormationClient) *DefaultCloudFormationOperations {
	return &DefaultCloudFormationOperations{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(describeInterval), describeBurst),
	}
}

// DescribeStackState returns the current state of a stack. A missing stack
// is reported with Exists false rather than an error.
func (o *DefaultCloudFormationOperations) DescribeStackState(ctx context.Context, stackName string) (*StackState, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	output, err := o.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackNotFoundError(err) {
			return &StackState{Name: stackName, Exists: false}, nil
		}
		return nil, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}

	if len(output.Stacks) == 0 {
		return &StackState{Name: stackName, Exists: false}, nil
	}

	stack := output.Stacks[0]
	state := &StackState{
		Name:         stackName,
		Exists:       true,
		Status:       stack.StackStatus,
		StatusReason: aws.ToString(stack.StackStatusReason),
		Outputs:      make(map[string]string, len(stack.Outputs)),
	}
	for _, out := range stack.Outputs {
		state.Outputs[aws.ToString(out.OutputKey)] = aws.ToString(out.OutputValue)
	}

	return state, nil
}

// GetStackOutputs returns the outputs of an existing stack
func (o *DefaultCloudFormationOperations) GetStackOutputs(ctx context.Context, stackName string) (map[string]string, error) {
	state, err := o.DescribeStackState(ctx, stackName)
	if err != nil {
		return nil, err
	}
	if !state.Exists {
		return nil, fmt.Errorf("stack %s does not exist", stackName)
	}
	return state.Outputs, nil
}

// CreateStack starts creation of a new stack
func (o *DefaultCloudFormationOperations) CreateStack(ctx context.Context, input DeployInput) error {
	_, err := o.client.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:    aws.String(input.StackName),
		TemplateBody: aws.String(input.TemplateBody),
		Parameters:   toSDKParameters(input.Parameters),
		Tags:         toSDKTags(input.Tags),
		Capabilities: toSDKCapabilities(input.Capabilities),
	})
	if err != nil {
		return fmt.Errorf("failed to create stack %s: %w", input.StackName, err)
	}
	return nil
}

// CreateChangeSet creates an update changeset and returns its ID
func (o *DefaultCloudFormationOperations) CreateChangeSet(ctx context.Context, input DeployInput, changeSetName string) (string, error) {
	output, err := o.client.CreateChangeSet(ctx, &cloudformation.CreateChangeSetInput{
		StackName:     aws.String(input.StackName),
		ChangeSetName: aws.String(changeSetName),
		ChangeSetType: types.ChangeSetTypeUpdate,
		TemplateBody:  aws.String(input.TemplateBody),
		Parameters:    toSDKParameters(input.Parameters),
		Tags:          toSDKTags(input.Tags),
		Capabilities:  toSDKCapabilities(input.Capabilities),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create changeset for stack %s: %w", input.StackName, err)
	}
	return aws.ToString(output.Id), nil
}

// DescribeChangeSet returns the current state of a changeset. The ID must
// be the changeset ARN returned by CreateChangeSet.
func (o *DefaultCloudFormationOperations) DescribeChangeSet(ctx context.Context, changeSetID string) (*ChangeSet, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	output, err := o.client.DescribeChangeSet(ctx, &cloudformation.DescribeChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe changeset %s: %w", changeSetID, err)
	}

	changeSet := &ChangeSet{
		ID:           changeSetID,
		Status:       output.Status,
		StatusReason: aws.ToString(output.StatusReason),
	}
	for _, change := range output.Changes {
		if change.ResourceChange == nil {
			continue
		}
		rc := change.ResourceChange
		changeSet.Changes = append(changeSet.Changes, ResourceChange{
			Action:       string(rc.Action),
			ResourceType: aws.ToString(rc.ResourceType),
			LogicalID:    aws.ToString(rc.LogicalResourceId),
			PhysicalID:   aws.ToString(rc.PhysicalResourceId),
			Replacement:  string(rc.Replacement),
		})
	}

	return changeSet, nil
}

// ExecuteChangeSet starts execution of a changeset
func (o *DefaultCloudFormationOperations) ExecuteChangeSet(ctx context.Context, changeSetID string) error {
	_, err := o.client.ExecuteChangeSet(ctx, &cloudformation.ExecuteChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return fmt.Errorf("failed to execute changeset %s: %w", changeSetID, err)
	}
	return nil
}

// DeleteChangeSet removes a changeset without executing it
func (o *DefaultCloudFormationOperations) DeleteChangeSet(ctx context.Context, changeSetID string) error {
	_, err := o.client.DeleteChangeSet(ctx, &cloudformation.DeleteChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete changeset %s: %w", changeSetID, err)
	}
	return nil
}

// DeleteStack starts deletion of a stack
func (o *DefaultCloudFormationOperations) DeleteStack(ctx context.Context, stackName string) error {
	_, err := o.client.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete stack %s: %w", stackName, err)
	}
	return nil
}

// ValidateTemplate checks a template body with the CloudFormation service
func (o *DefaultCloudFormationOperations) ValidateTemplate(ctx context.Context, templateBody string) error {
	if err := o.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := o.client.ValidateTemplate(ctx, &cloudformation.ValidateTemplateInput{
		TemplateBody: aws.String(templateBody),
	})
	if err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}
	return nil
}

// DescribeStackEvents returns events newer than since in chronological
// order. The API reports events newest first, so collection stops at the
// first event at or before the boundary.
func (o *DefaultCloudFormationOperations) DescribeStackEvents(ctx context.Context, stackName string, since time.Time) ([]StackEvent, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	output, err := o.client.DescribeStackEvents(ctx, &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe events for stack %s: %w", stackName, err)
	}

	var events []StackEvent
	for _, event := range output.StackEvents {
		timestamp := aws.ToTime(event.Timestamp)
		if !timestamp.After(since) {
			break
		}
		events = append(events, StackEvent{
			EventID:              aws.ToString(event.EventId),
			LogicalResourceID:    aws.ToString(event.LogicalResourceId),
			ResourceType:         aws.ToString(event.ResourceType),
			ResourceStatus:       string(event.ResourceStatus),
			ResourceStatusReason: aws.ToString(event.ResourceStatusReason),
			Timestamp:            timestamp,
		})
	}

	// Reverse into chronological order
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	return events, nil
}

// isStackNotFoundError recognises the ValidationError CloudFormation
// returns for operations on stacks that do not exist
func isStackNotFoundError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" &&
			strings.Contains(apiErr.ErrorMessage(), "does not exist")
	}
	return strings.Contains(err.Error(), "does not exist")
}

// toSDKParameters converts a parameter map to SDK parameters in key order
func toSDKParameters(parameters map[string]string) []types.Parameter {
	if len(parameters) == 0 {
		return nil
	}

	keys := make([]string, 0, len(parameters))
	for key := range parameters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]types.Parameter, 0, len(keys))
	for _, key := range keys {
		result = append(result, types.Parameter{
			ParameterKey:   aws.String(key),
			ParameterValue: aws.String(parameters[key]),
		})
	}
	return result
}

// toSDKTags converts a tag map to SDK tags in key order
func toSDKTags(tags map[string]string) []types.Tag {
	if len(tags) == 0 {
		return nil
	}

	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]types.Tag, 0, len(keys))
	for _, key := range keys {
		result = append(result, types.Tag{
			Key:   aws.String(key),
			Value: aws.String(tags[key]),
		})
	}
	return result
}

// toSDKCapabilities converts capability names to SDK capabilities
func toSDKCapabilities(capabilities []string) []types.Capability {
	if len(capabilities) == 0 {
		return nil
	}

	result := make([]types.Capability, len(capabilities))
	for i, capability := range capabilities {
		result[i] = types.Capability(capability)
	}
	return result
}
