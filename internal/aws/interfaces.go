/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package aws wraps the AWS SDK behind narrow interfaces so that the rest
// of the codebase can be tested without talking to CloudFormation.
package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// CloudFormationClient is the subset of the CloudFormation SDK client used
// by groundwork
type CloudFormationClient interface {
	CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	DescribeStackEvents(ctx context.Context, params *cloudformation.DescribeStackEventsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackEventsOutput, error)
	ValidateTemplate(ctx context.Context, params *cloudformation.ValidateTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ValidateTemplateOutput, error)
	CreateChangeSet(ctx context.Context, params *cloudformation.CreateChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateChangeSetOutput, error)
	DescribeChangeSet(ctx context.Context, params *cloudformation.DescribeChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeChangeSetOutput, error)
	ExecuteChangeSet(ctx context.Context, params *cloudformation.ExecuteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ExecuteChangeSetOutput, error)
	DeleteChangeSet(ctx context.Context, params *cloudformation.DeleteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteChangeSetOutput, error)
}

// CloudFormationOperations provides domain-level CloudFormation operations
type CloudFormationOperations interface {
	// DescribeStackState returns the current state of a stack. A stack
	// that does not exist is reported with Exists false, not an error.
	DescribeStackState(ctx context.Context, stackName string) (*StackState, error)

	// GetStackOutputs returns the outputs of an existing stack
	GetStackOutputs(ctx context.Context, stackName string) (map[string]string, error)

	// CreateStack starts creation of a new stack
	CreateStack(ctx context.Context, input DeployInput) error

	// CreateChangeSet creates an update changeset and returns its ID
	CreateChangeSet(ctx context.Context, input DeployInput, changeSetName string) (string, error)

	// DescribeChangeSet returns the current state of a changeset
	DescribeChangeSet(ctx context.Context, changeSetID string) (*ChangeSet, error)

	// ExecuteChangeSet starts execution of a reviewed changeset
	ExecuteChangeSet(ctx context.Context, changeSetID string) error

	// DeleteChangeSet removes a changeset without executing it
	DeleteChangeSet(ctx context.Context, changeSetID string) error

	// DeleteStack starts deletion of a stack
	DeleteStack(ctx context.Context, stackName string) error

	// ValidateTemplate checks a template body with the CloudFormation service
	ValidateTemplate(ctx context.Context, templateBody string) error

	// DescribeStackEvents returns events newer than since in chronological
	// order. A missing stack yields no events.
	DescribeStackEvents(ctx context.Context, stackName string, since time.Time) ([]StackEvent, error)
}

// ClientFactory creates CloudFormation operations for a region
type ClientFactory interface {
	GetCloudFormationOperations(ctx context.Context, region string) (CloudFormationOperations, error)
}

// StackState is a point-in-time view of a stack
type StackState struct {
	Name         string
	Exists       bool
	Status       types.StackStatus
	StatusReason string
	Outputs      map[string]string
}

// ChangeSet describes a CloudFormation changeset
type ChangeSet struct {
	ID           string
	Status       types.ChangeSetStatus
	StatusReason string
	Changes      []ResourceChange
}

// ResourceChange describes a single resource change within a changeset
type ResourceChange struct {
	Action       string
	ResourceType string
	LogicalID    string
	PhysicalID   string
	Replacement  string
}

// StackEvent is a single stack event
type StackEvent struct {
	EventID              string
	LogicalResourceID    string
	ResourceType         string
	ResourceStatus       string
	ResourceStatusReason string
	Timestamp            time.Time
}

// DeployInput carries everything needed to create or update a stack
type DeployInput struct {
	StackName    string
	TemplateBody string
	Parameters   map[string]string
	Tags         map[string]string
	Capabilities []string
}
