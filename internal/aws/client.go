/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// Config controls how AWS clients are constructed
type Config struct {
	// Region is the default region when a stack's environment does not
	// specify one
	Region string

	// Profile selects a shared configuration profile. Empty uses the
	// default credential chain.
	Profile string
}

// loadAWSConfig assembles SDK configuration for a region using the default
// credential chain
func loadAWSConfig(ctx context.Context, cfg Config, region string) (aws.Config, error) {
	var options []func(*awsconfig.LoadOptions) error

	if region != "" {
		options = append(options, awsconfig.WithRegion(region))
	}
	if cfg.Profile != "" {
		options = append(options, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return awsCfg, nil
}
