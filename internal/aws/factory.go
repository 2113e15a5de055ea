/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// ClientFactory creates AWS clients with proper region configuration
type ClientFactory interface {
	// GetCloudFormationOperations returns CloudFormation operations for specified region
	GetCloudFormationOperations(ctx context.Context, region string) (CloudFormationOperations, error)

	// GetECROperations returns registry operations for specified region
	GetECROperations(ctx context.Context, region string) (ECROperations, error)

	// GetBaseConfig returns the shared AWS configuration (for debugging)
	GetBaseConfig() aws.Config

	// ValidateRegion checks if a region is valid
	ValidateRegion(region string) error
}

// DefaultClientFactory implements ClientFactory with caching and shared authentication
type DefaultClientFactory struct {
	baseConfig aws.Config
	cfnCache   map[string]CloudFormationOperations
	ecrCache   map[string]ECROperations
	mutex      sync.RWMutex
}

// NewClientFactory creates a client factory with shared authentication
func NewClientFactory(ctx context.Context) (ClientFactory, error) {
	// Load base config with credentials but allow region override per-client
	baseConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return NewClientFactoryWithConfig(baseConfig), nil
}

// NewClientFactoryWithConfig creates a client factory from an existing configuration
func NewClientFactoryWithConfig(baseConfig aws.Config) *DefaultClientFactory {
	return &DefaultClientFactory{
		baseConfig: baseConfig,
		cfnCache:   make(map[string]CloudFormationOperations),
		ecrCache:   make(map[string]ECROperations),
	}
}

// GetCloudFormationOperations returns CloudFormation operations for the
// specified region, falling back to the configured default region
func (f *DefaultClientFactory) GetCloudFormationOperations(ctx context.Context, region string) (CloudFormationOperations, error) {
	region, err := f.regionOrDefault(region)
	if err != nil {
		return nil, err
	}

	f.mutex.RLock()
	if ops, exists := f.cfnCache[region]; exists {
		f.mutex.RUnlock()
		return ops, nil
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if ops, exists := f.cfnCache[region]; exists {
		return ops, nil
	}

	ops := NewCloudFormationOperationsWithClient(cloudformation.NewFromConfig(f.regionConfig(region)))
	f.cfnCache[region] = ops
	return ops, nil
}

// GetECROperations returns registry operations for the specified region,
// falling back to the configured default region
func (f *DefaultClientFactory) GetECROperations(ctx context.Context, region string) (ECROperations, error) {
	region, err := f.regionOrDefault(region)
	if err != nil {
		return nil, err
	}

	f.mutex.RLock()
	if ops, exists := f.ecrCache[region]; exists {
		f.mutex.RUnlock()
		return ops, nil
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if ops, exists := f.ecrCache[region]; exists {
		return ops, nil
	}

	ops := NewECROperationsWithClient(ecr.NewFromConfig(f.regionConfig(region)))
	f.ecrCache[region] = ops
	return ops, nil
}

// GetBaseConfig returns the shared AWS configuration
func (f *DefaultClientFactory) GetBaseConfig() aws.Config {
	return f.baseConfig
}

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]?)?-[a-z]+-[0-9]+$`)

// ValidateRegion checks the region has the shape of an AWS region name
func (f *DefaultClientFactory) ValidateRegion(region string) error {
	if region == "" {
		return fmt.Errorf("region cannot be empty")
	}

	if !regionPattern.MatchString(region) {
		return fmt.Errorf("region '%s' appears to be invalid", region)
	}

	return nil
}

func (f *DefaultClientFactory) regionOrDefault(region string) (string, error) {
	if region == "" {
		region = f.baseConfig.Region
	}
	if err := f.ValidateRegion(region); err != nil {
		return "", err
	}
	return region, nil
}

func (f *DefaultClientFactory) regionConfig(region string) aws.Config {
	regionConfig := f.baseConfig.Copy()
	regionConfig.Region = region
	return regionConfig
}
