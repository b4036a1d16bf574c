/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockConfigProvider_ImplementsInterface(t *testing.T) {
	var _ ConfigProvider = (*MockConfigProvider)(nil)
}

func TestParameterValue_Literal(t *testing.T) {
	tests := []struct {
		name      string
		pv        *ParameterValue
		wantValue string
		wantOK    bool
	}{
		{
			name: "literal value",
			pv: &ParameterValue{
				ResolutionType:   "literal",
				ResolutionConfig: map[string]string{"value": "10.0.0.0/16"},
			},
			wantValue: "10.0.0.0/16",
			wantOK:    true,
		},
		{
			name: "empty literal",
			pv: &ParameterValue{
				ResolutionType:   "literal",
				ResolutionConfig: map[string]string{"value": ""},
			},
			wantValue: "",
			wantOK:    true,
		},
		{
			name: "stack output reference",
			pv: &ParameterValue{
				ResolutionType:   "stack-output",
				ResolutionConfig: map[string]string{"stack": "vpc", "output": "VpcId"},
			},
			wantValue: "",
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := tt.pv.Literal()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestConfig_StackOrderPreserved(t *testing.T) {
	cfg := &Config{
		Project: "acme",
		Stacks: []*StackConfig{
			{Key: "vpc"},
			{Key: "iam"},
			{Key: "storage"},
		},
	}

	keys := make([]string, 0, len(cfg.Stacks))
	for _, s := range cfg.Stacks {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"vpc", "iam", "storage"}, keys)
}
