/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package status

import (
	"os"

	"charm.land/lipgloss/v2"

	"github.com/worx/groundwork/internal/operator"
)

// Styles contains the styles for rendering status tables and run summaries
type Styles struct {
	// Stack status styles
	Ready      lipgloss.Style
	InProgress lipgloss.Style
	Failed     lipgloss.Style
	NotExists  lipgloss.Style
	Unknown    lipgloss.Style

	// Outcome styles
	Success lipgloss.Style
	Failure lipgloss.Style
	Skipped lipgloss.Style

	// Layout styles
	Header    lipgloss.Style
	Key       lipgloss.Style
	Subtle    lipgloss.Style
	Separator lipgloss.Style

	// Whether colours are enabled
	UseColour bool
}

// NewStyles creates the style set.
// Colours are optimised based on terminal background (dark vs light).
func NewStyles(useColour bool) *Styles {
	s := &Styles{UseColour: useColour}

	if useColour {
		// Detect terminal background and select appropriate colours
		hasDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

		var (
			headerText    string
			successText   string
			warningText   string
			errorText     string
			unknownText   string
			keyText       string
			subtleText    string
			separatorText string
		)

		if hasDark {
			// Dark background colours - optimised for readability on dark terminals
			headerText = "12"     // Bright Blue
			successText = "10"    // Green
			warningText = "11"    // Yellow
			errorText = "9"       // Red
			unknownText = "13"    // Magenta
			keyText = "14"        // Cyan
			subtleText = "8"      // Dark Grey
			separatorText = "240" // Dimmed Grey
		} else {
			// Light background colours - optimised for readability on light terminals
			headerText = "4"      // Blue
			successText = "2"     // Green
			warningText = "3"     // Yellow/Brown
			errorText = "1"       // Red
			unknownText = "5"     // Magenta
			keyText = "6"         // Cyan
			subtleText = "8"      // Grey
			separatorText = "245" // Light Grey
		}

		// Stack status colours
		s.Ready = lipgloss.NewStyle().
			Foreground(lipgloss.Color(successText)).
			Bold(true)

		s.InProgress = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningText)).
			Bold(true)

		s.Failed = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorText)).
			Bold(true)

		s.NotExists = lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtleText))

		s.Unknown = lipgloss.NewStyle().
			Foreground(lipgloss.Color(unknownText)).
			Bold(true)

		// Outcome colours
		s.Success = lipgloss.NewStyle().
			Foreground(lipgloss.Color(successText))

		s.Failure = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorText)).
			Bold(true)

		s.Skipped = lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtleText))

		// Layout styles
		s.Header = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(headerText))

		s.Key = lipgloss.NewStyle().
			Foreground(lipgloss.Color(keyText))

		s.Subtle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtleText))

		s.Separator = lipgloss.NewStyle().
			Foreground(lipgloss.Color(separatorText))

	} else {
		// Plain mode - empty styles pass text through unchanged
		plainStyle := lipgloss.NewStyle()

		s.Ready = plainStyle
		s.InProgress = plainStyle
		s.Failed = plainStyle
		s.NotExists = plainStyle
		s.Unknown = plainStyle

		s.Success = plainStyle
		s.Failure = plainStyle
		s.Skipped = plainStyle

		s.Header = plainStyle
		s.Key = plainStyle
		s.Subtle = plainStyle
		s.Separator = plainStyle
	}

	return s
}

// StatusStyle returns the style for a stack status
func (s *Styles) StatusStyle(status operator.StackStatus) lipgloss.Style {
	switch status {
	case operator.StatusReady:
		return s.Ready
	case operator.StatusInProgress:
		return s.InProgress
	case operator.StatusFailed:
		return s.Failed
	case operator.StatusNotExists:
		return s.NotExists
	default:
		return s.Unknown
	}
}

// OutcomeSymbol returns the appropriate symbol for an operation outcome
func (s *Styles) OutcomeSymbol(outcome operator.Outcome) string {
	switch outcome {
	case operator.OutcomeSuccess:
		return s.Success.Render("✓")
	case operator.OutcomeFailure:
		return s.Failure.Render("✗")
	case operator.OutcomeSkipped:
		return s.Skipped.Render("-")
	default:
		return "?"
	}
}

// ShouldUseColour determines if colour output should be used
func ShouldUseColour() bool {
	// Check NO_COLOR environment variable (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check TERM environment variable
	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}

	// Check if stdout is a terminal
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	// Check if it's a character device (terminal)
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
