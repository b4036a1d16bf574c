/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package prompt handles interactive user confirmation
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks the user for confirmation
type Prompter interface {
	// Confirm asks the user a yes/no question. Only "y" and "yes" count
	// as confirmation.
	Confirm(message string) (bool, error)
}

// StdinPrompter reads confirmation answers from an input stream
type StdinPrompter struct {
	input io.Reader
}

// NewStdinPrompter creates a prompter reading from stdin
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{input: os.Stdin}
}

// Confirm asks a yes/no question and reads a single answer line
func (p *StdinPrompter) Confirm(message string) (bool, error) {
	fmt.Printf("%s [y/N]: ", message)

	scanner := bufio.NewScanner(p.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read response: %w", err)
		}
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

// defaultPrompter is the package-level prompter, replaceable for testing
var defaultPrompter Prompter = NewStdinPrompter()

// SetPrompter replaces the default prompter and returns the previous one
func SetPrompter(p Prompter) Prompter {
	previous := defaultPrompter
	defaultPrompter = p
	return previous
}

// GetDefaultPrompter returns the current default prompter
func GetDefaultPrompter() Prompter {
	return defaultPrompter
}

// Confirm asks for confirmation using the default prompter
func Confirm(message string) (bool, error) {
	return defaultPrompter.Confirm(message)
}
