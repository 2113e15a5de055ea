/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
)

// ErrRepositoryNotFound is returned when the registry has no repository by the given name
var ErrRepositoryNotFound = errors.New("repository not found")

// ImageExistsInput identifies a tagged image in a registry
type ImageExistsInput struct {
	RegistryID     string // account owning the registry; empty for the caller's account
	RepositoryName string
	ImageTag       string
}

// DefaultECROperations checks build images in Amazon ECR
type DefaultECROperations struct {
	client ECRClient
}

// NewECROperationsWithClient creates ECR operations with a custom client (for testing)
func NewECROperationsWithClient(client ECRClient) *DefaultECROperations {
	return &DefaultECROperations{client: client}
}

// ImageExists reports whether the repository holds an image with the tag.
// A missing repository is an error wrapping ErrRepositoryNotFound.
func (e *DefaultECROperations) ImageExists(ctx context.Context, input ImageExistsInput) (bool, error) {
	params := &ecr.DescribeImagesInput{
		RepositoryName: aws.String(input.RepositoryName),
		ImageIds: []ecrtypes.ImageIdentifier{
			{ImageTag: aws.String(input.ImageTag)},
		},
	}
	if input.RegistryID != "" {
		params.RegistryId = aws.String(input.RegistryID)
	}

	output, err := e.client.DescribeImages(ctx, params)
	if err != nil {
		var notFound *ecrtypes.ImageNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		var noRepo *ecrtypes.RepositoryNotFoundException
		if errors.As(err, &noRepo) {
			return false, fmt.Errorf("%w: %s", ErrRepositoryNotFound, input.RepositoryName)
		}
		return false, fmt.Errorf("failed to describe image %s:%s: %w", input.RepositoryName, input.ImageTag, err)
	}

	return len(output.ImageDetails) > 0, nil
}
