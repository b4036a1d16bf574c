/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package orchestrate

import (
	"time"

	"github.com/google/uuid"

	"github.com/worx/groundwork/internal/operator"
)

// RunReport summarises one orchestrated run over an environment's stacks
type RunReport struct {
	ID          string
	Environment string
	Action      operator.Action
	Scope       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Results     []*operator.Result
}

func newRunReport(environment string, action operator.Action, scope string) *RunReport {
	return &RunReport{
		ID:          uuid.NewString(),
		Environment: environment,
		Action:      action,
		Scope:       scope,
		StartedAt:   time.Now(),
	}
}

func (r *RunReport) add(result *operator.Result) {
	r.Results = append(r.Results, result)
}

func (r *RunReport) finish() *RunReport {
	r.FinishedAt = time.Now()
	return r
}

// Failed reports whether any stack in the run failed
func (r *RunReport) Failed() bool {
	for _, result := range r.Results {
		if result.Outcome == operator.OutcomeFailure {
			return true
		}
	}
	return false
}

// Counts returns how many stacks succeeded, failed and were skipped
func (r *RunReport) Counts() (succeeded, failed, skipped int) {
	for _, result := range r.Results {
		switch result.Outcome {
		case operator.OutcomeSuccess:
			succeeded++
		case operator.OutcomeFailure:
			failed++
		case operator.OutcomeSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}

// Duration returns how long the run took
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
