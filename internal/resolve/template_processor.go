/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateProcessor renders configuration values that contain template expressions
type TemplateProcessor interface {
	Process(content string, variables map[string]interface{}) (string, error)
}

// SprigProcessor implements TemplateProcessor using Go's text/template with Sprig functions
type SprigProcessor struct{}

// NewSprigProcessor creates a new configuration value processor
func NewSprigProcessor() *SprigProcessor {
	return &SprigProcessor{}
}

// Process renders content with the provided variables. Content without an
// action delimiter is returned unchanged. Referencing an unknown variable is
// an error.
func (tp *SprigProcessor) Process(content string, variables map[string]interface{}) (string, error) {
	if !strings.Contains(content, "{{") {
		return content, nil
	}

	tmpl, err := template.New("value").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
