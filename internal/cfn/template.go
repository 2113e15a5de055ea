/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package cfn reads rendered CloudFormation templates of any resource type,
// converts them between JSON and YAML, and derives logical ids.
package cfn

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Template is the generic shape of a CloudFormation template. Properties stay
// untyped so templates with resource types unknown to this tool still parse.
type Template struct {
	AWSTemplateFormatVersion string               `yaml:"AWSTemplateFormatVersion"`
	Description              string               `yaml:"Description,omitempty"`
	Resources                map[string]*Resource `yaml:"Resources"`
	Outputs                  map[string]*Output   `yaml:"Outputs,omitempty"`
}

// Resource is a single entry in the Resources section
type Resource struct {
	Type       string                 `yaml:"Type"`
	Properties map[string]interface{} `yaml:"Properties,omitempty"`
	DependsOn  []string               `yaml:"DependsOn,omitempty"`
}

// Output is a single entry in the Outputs section
type Output struct {
	Description string      `yaml:"Description,omitempty"`
	Value       interface{} `yaml:"Value"`
}

// ResourcesOfType returns the logical ids of all resources with the given type, sorted
func (t *Template) ResourcesOfType(resourceType string) []string {
	var ids []string
	for id, resource := range t.Resources {
		if resource.Type == resourceType {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Parse reads a template from JSON or YAML content
func Parse(content []byte) (*Template, error) {
	var t Template
	// YAML is a superset of JSON, so one decoder covers both formats.
	if err := yaml.Unmarshal(content, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if t.Resources == nil {
		t.Resources = make(map[string]*Resource)
	}
	return &t, nil
}

// Render converts a JSON or YAML template body to the named format ("json"
// or "yaml"). JSON input asked for as JSON is returned unchanged.
func Render(body []byte, format string) ([]byte, error) {
	switch format {
	case "", "json":
		if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
			return body, nil
		}
		return nil, fmt.Errorf("template is not JSON")
	case "yaml", "yml":
		return toYAML(body)
	default:
		return nil, fmt.Errorf("unsupported template format %q", format)
	}
}

func toYAML(body []byte) ([]byte, error) {
	var generic yaml.Node
	if err := yaml.Unmarshal(body, &generic); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	clearStyle(&generic)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&generic); err != nil {
		return nil, fmt.Errorf("failed to render template as YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to render template as YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// clearStyle drops the flow and quoting style JSON input carries, so the
// output reads as block YAML while keeping key order and scalar tags
func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
