/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

// Environment identifies the account and region a set of stacks is
// provisioned into.
type Environment struct {
	Name    string
	Account string
	Region  string
	Tags    map[string]string
}

// OutputRef names an output of a stack deployed earlier in the order.
// Parameters carrying an OutputRef are resolved against the control plane
// at deploy time.
type OutputRef struct {
	StackName string
	OutputKey string
}

// Stack represents a fully resolved stack ready for an operation
type Stack struct {
	Key          string // registry key, e.g. "vpc"
	Name         string // physical CloudFormation stack name
	Environment  *Environment
	TemplateBody string
	Parameters   map[string]string
	OutputRefs   map[string]OutputRef // parameters filled from earlier stacks' outputs
	Tags         map[string]string
	Capabilities []string
	DependsOn    []string
	Stateful     bool
}

// HasOutputRefs reports whether any parameter still needs a deploy-time
// output lookup.
func (s *Stack) HasOutputRefs() bool {
	return len(s.OutputRefs) > 0
}
