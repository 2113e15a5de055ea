/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter defines the interface for user prompting
type Prompter interface {
	Confirm(message string) (bool, error)
}

// StdinPrompter implements Prompter using standard input
type StdinPrompter struct {
	input  io.Reader
	output io.Writer
}

// NewStdinPrompter creates a new prompter that reads from stdin
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{input: os.Stdin, output: os.Stdout}
}

// NewPrompter creates a prompter over arbitrary streams
func NewPrompter(input io.Reader, output io.Writer) *StdinPrompter {
	return &StdinPrompter{input: input, output: output}
}

// Confirm asks a yes/no question. Anything other than y or yes, including
// end of input, is a no.
func (p *StdinPrompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.output, "\n%s [y/N]: ", message)

	scanner := bufio.NewScanner(p.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read user input: %w", err)
		}
		return false, nil
	}

	response := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return response == "y" || response == "yes", nil
}

// AutoApprove answers yes to every question without reading input
type AutoApprove struct{}

func (AutoApprove) Confirm(string) (bool, error) {
	return true, nil
}

var defaultPrompter Prompter = NewStdinPrompter()

// SetPrompter replaces the package-level prompter
func SetPrompter(p Prompter) {
	defaultPrompter = p
}

// GetDefaultPrompter returns the current package-level prompter
func GetDefaultPrompter() Prompter {
	return defaultPrompter
}

// Confirm prompts the user using the default prompter
func Confirm(message string) (bool, error) {
	return defaultPrompter.Confirm(message)
}
