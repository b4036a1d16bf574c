/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// DefaultClientFactory creates and caches CloudFormation operations per
// region. Safe for concurrent use.
type DefaultClientFactory struct {
	config Config

	mu    sync.RWMutex
	cache map[string]CloudFormationOperations
}

// NewClientFactory creates a client factory with the given configuration
func NewClientFactory(config Config) *DefaultClientFactory {
	return &DefaultClientFactory{
		config: config,
		cache:  make(map[string]CloudFormationOperations),
	}
}

// GetCloudFormationOperations returns operations for a region, creating the
// underlying client on first use. An empty region uses the factory default.
func (f *DefaultClientFactory) GetCloudFormationOperations(ctx context.Context, region string) (CloudFormationOperations, error) {
	if region == "" {
		region = f.config.Region
	}

	f.mu.RLock()
	operations, exists := f.cache[region]
	f.mu.RUnlock()
	if exists {
		return operations, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Another caller may have created the client while we waited
	if operations, exists := f.cache[region]; exists {
		return operations, nil
	}

	awsCfg, err := loadAWSConfig(ctx, f.config, region)
	if err != nil {
		return nil, fmt.Errorf("failed to create CloudFormation client for region %s: %w", region, err)
	}

	client := cloudformation.NewFromConfig(awsCfg)
	operations = NewCloudFormationOperations(client)
	f.cache[region] = operations

	return operations, nil
}
