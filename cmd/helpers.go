/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/orien/cistack/internal/aws"
	"github.com/orien/cistack/internal/config/file"
	"github.com/orien/cistack/internal/resolve"
)

// clientFactory can be injected for testing
var clientFactory aws.ClientFactory

// createResolver creates a configuration provider and resolver for the --config file
func createResolver() (*file.Provider, *resolve.StackResolver) {
	provider := file.NewProvider(configFile)
	resolver := resolve.NewStackResolver(provider)
	return provider, resolver
}

// getClientFactory returns the shared AWS client factory, creating it on first use
func getClientFactory(ctx context.Context) (aws.ClientFactory, error) {
	if clientFactory != nil {
		return clientFactory, nil
	}

	factory, err := aws.NewClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client factory: %w", err)
	}
	clientFactory = factory
	return clientFactory, nil
}

// SetClientFactory allows injection of a client factory (for testing)
func SetClientFactory(f aws.ClientFactory) {
	clientFactory = f
}
