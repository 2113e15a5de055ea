/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockPrompter_Interface(t *testing.T) {
	var _ Prompter = (*MockPrompter)(nil)
	var _ Prompter = AutoApprove{}
}

func TestStdinPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"yes lowercase", "yes\n", true},
		{"yes uppercase", "YES\n", true},
		{"y", "y\n", true},
		{"with whitespace", "  y  \n", true},
		{"no", "no\n", false},
		{"empty line", "\n", false},
		{"partial match", "yeah\n", false},
		{"end of input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			prompter := NewPrompter(strings.NewReader(tt.input), &output)

			confirmed, err := prompter.Confirm("Deploy aws-lc-ci?")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, confirmed)
			assert.Equal(t, "\nDeploy aws-lc-ci? [y/N]: ", output.String())
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("terminal closed")
}

func TestStdinPrompter_ReadError(t *testing.T) {
	prompter := NewPrompter(failingReader{}, &bytes.Buffer{})

	_, err := prompter.Confirm("Proceed?")
	assert.ErrorContains(t, err, "failed to read user input")
}

func TestAutoApprove(t *testing.T) {
	confirmed, err := AutoApprove{}.Confirm("anything")
	assert.NoError(t, err)
	assert.True(t, confirmed)
}

func TestConfirm_UsesDefaultPrompter(t *testing.T) {
	originalPrompter := GetDefaultPrompter()
	defer SetPrompter(originalPrompter)

	mockPrompter := &MockPrompter{}
	mockPrompter.On("Confirm", "Execute command?").Return(false, nil).Once()
	SetPrompter(mockPrompter)

	result, err := Confirm("Execute command?")

	assert.NoError(t, err)
	assert.False(t, result)
	assert.Same(t, mockPrompter, GetDefaultPrompter())
	mockPrompter.AssertExpectations(t)
}

func TestDefaultPrompter_IsStdinPrompter(t *testing.T) {
	_, ok := defaultPrompter.(*StdinPrompter)
	assert.True(t, ok)
}
