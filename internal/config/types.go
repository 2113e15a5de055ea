/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package config

import (
	"context"
)

// ConfigProvider defines the interface for loading and managing configuration
type ConfigProvider interface {
	// LoadConfig loads configuration for a specific context
	LoadConfig(ctx context.Context, contextName string) (*Config, error)

	// ListContexts returns all available contexts in the configuration
	ListContexts() ([]string, error)

	// GetStack returns stack configuration for a specific stack and context
	GetStack(stackName, contextName string) (*StackConfig, error)

	// ListStacks returns all available stack names for a specific context
	ListStacks(contextName string) ([]string, error)

	// Validate checks the configuration for consistency and errors
	Validate() error
}

// Config represents the resolved configuration for a specific context
type Config struct {
	Project string
	Region  string
	Tags    map[string]string
	Context *ContextConfig // Resolved context
	Stacks  []*StackConfig // Resolved stacks
}

// ContextConfig represents resolved context-specific configuration
type ContextConfig struct {
	Name    string
	Account string
	Region  string
	Tags    map[string]string
}

// StackConfig represents a build stack with context overrides applied.
// String fields may hold template expressions that are rendered at resolution.
type StackConfig struct {
	Name        string
	ECRRepo     string
	ImageTag    string
	BuildSpec   string
	Windows     bool
	Privileged  bool
	Description string
	Tags        map[string]string
}
