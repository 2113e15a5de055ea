/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package file contains types and structures specific to file-based configuration providers.
// These types represent the raw YAML structure before context resolution and inheritance.
package file

// Config represents the raw YAML configuration file structure
// Used for parsing the cistack.yaml file before context resolution
type Config struct {
	Project  string              `yaml:"project"`
	Region   string              `yaml:"region"`
	Tags     map[string]string   `yaml:"tags"`
	Contexts map[string]*Context `yaml:"contexts"`
	Stacks   map[string]*Stack   `yaml:"stacks"`
}

// Context represents context configuration as it appears in YAML
type Context struct {
	Account string            `yaml:"account"`
	Region  string            `yaml:"region"`
	Tags    map[string]string `yaml:"tags"`
}

// Stack represents build stack configuration as it appears in YAML before context resolution
type Stack struct {
	ECRRepo     string                      `yaml:"ecr_repo"`
	ImageTag    string                      `yaml:"image_tag"`
	BuildSpec   string                      `yaml:"build_spec"`
	Windows     bool                        `yaml:"windows"`
	Privileged  bool                        `yaml:"privileged"`
	Description string                      `yaml:"description"`
	Tags        map[string]string           `yaml:"tags"`
	Contexts    map[string]*ContextOverride `yaml:"contexts"`
}

// ContextOverride represents context-specific overrides for a stack.
// Nil pointers leave the stack value unchanged.
type ContextOverride struct {
	ImageTag   *string           `yaml:"image_tag"`
	BuildSpec  *string           `yaml:"build_spec"`
	Privileged *bool             `yaml:"privileged"`
	Tags       map[string]string `yaml:"tags"`
}
