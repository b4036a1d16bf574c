/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/worx/groundwork/internal/operator"
	"github.com/worx/groundwork/internal/orchestrate"
)

const separatorWidth = 40

// Renderer formats status sweeps and run reports for terminal display
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a renderer that decides colour use from the terminal
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles(ShouldUseColour())}
}

// NewRendererWithStyles creates a renderer with an explicit style set
func NewRendererWithStyles(styles *Styles) *Renderer {
	return &Renderer{styles: styles}
}

// StatusTable returns a human-readable table of per-stack statuses
func (r *Renderer) StatusTable(report *orchestrate.RunReport) string {
	var output strings.Builder

	header := fmt.Sprintf("Environment: %s", report.Environment)
	output.WriteString(r.styles.Header.Render(header))
	output.WriteString("\n")
	output.WriteString(r.styles.Separator.Render(strings.Repeat("━", separatorWidth)))
	output.WriteString("\n")

	if len(report.Results) == 0 {
		output.WriteString("No stacks defined\n")
		return output.String()
	}

	keyWidth, nameWidth := columnWidths(report.Results)
	for _, result := range report.Results {
		// Padding happens before styling so escape codes do not skew columns
		key := r.styles.Key.Render(pad(result.StackKey, keyWidth))
		name := pad(result.StackName, nameWidth)
		status := r.styles.StatusStyle(result.FinalStatus).Render(string(result.FinalStatus))
		fmt.Fprintf(&output, "%s  %s  %s", key, name, status)

		if result.Detail != "" && result.Detail != string(result.FinalStatus) {
			output.WriteString(r.styles.Subtle.Render(fmt.Sprintf("  %s", result.Detail)))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// RunSummary returns a human-readable summary of a deploy or destroy run
func (r *Renderer) RunSummary(report *orchestrate.RunReport) string {
	var output strings.Builder

	separator := r.styles.Separator.Render(strings.Repeat("━", separatorWidth))

	output.WriteString("\n")
	output.WriteString(separator)
	output.WriteString("\n")
	title := fmt.Sprintf("%s summary for environment %s", actionTitle(report.Action), report.Environment)
	output.WriteString(r.styles.Header.Render(title))
	output.WriteString("\n")
	output.WriteString(separator)
	output.WriteString("\n")

	for _, result := range report.Results {
		symbol := r.styles.OutcomeSymbol(result.Outcome)
		key := r.styles.Key.Render(result.StackKey)
		fmt.Fprintf(&output, "%s %s", symbol, key)

		if result.Detail != "" {
			output.WriteString(r.styles.Subtle.Render(fmt.Sprintf(" (%s)", result.Detail)))
		}
		output.WriteString("\n")

		if result.Err != nil {
			output.WriteString(r.styles.Failure.Render(fmt.Sprintf("  Error: %v", result.Err)))
			output.WriteString("\n")
		}
	}

	succeeded, failed, skipped := report.Counts()
	output.WriteString(separator)
	output.WriteString("\n")
	fmt.Fprintf(&output, "Total:     %d\n", len(report.Results))
	fmt.Fprintf(&output, "Succeeded: %d\n", succeeded)
	fmt.Fprintf(&output, "Failed:    %d\n", failed)
	fmt.Fprintf(&output, "Skipped:   %d\n", skipped)
	fmt.Fprintf(&output, "Duration:  %s\n", report.Duration().Round(time.Millisecond))

	if failed == 0 {
		output.WriteString(r.styles.Success.Render(fmt.Sprintf("\n✓ %s complete", actionTitle(report.Action))))
	} else {
		output.WriteString(r.styles.Failure.Render(fmt.Sprintf("\n✗ %s failed for %d stack(s)", actionTitle(report.Action), failed)))
	}
	output.WriteString("\n")

	return output.String()
}

// actionTitle returns the display title for an action
func actionTitle(action operator.Action) string {
	switch action {
	case operator.ActionDeploy:
		return "Deployment"
	case operator.ActionDestroy:
		return "Destruction"
	default:
		return "Status"
	}
}

// columnWidths computes the key and name column widths for a result set
func columnWidths(results []*operator.Result) (int, int) {
	keyWidth, nameWidth := 0, 0
	for _, result := range results {
		if len(result.StackKey) > keyWidth {
			keyWidth = len(result.StackKey)
		}
		if len(result.StackName) > nameWidth {
			nameWidth = len(result.StackName)
		}
	}
	return keyWidth, nameWidth
}

// pad right-pads a string to the given width
func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
