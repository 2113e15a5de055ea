/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func imageInput() ImageExistsInput {
	return ImageExistsInput{
		RepositoryName: "aws-lc-docker-images-linux-x86",
		ImageTag:       "ubuntu-20.04_clang-7x_latest",
	}
}

func TestImageExists(t *testing.T) {
	ctx := context.Background()
	client := &MockECRClient{}
	client.On("DescribeImages", ctx, mock.MatchedBy(func(input *ecr.DescribeImagesInput) bool {
		return aws.ToString(input.RepositoryName) == "aws-lc-docker-images-linux-x86" &&
			len(input.ImageIds) == 1 &&
			aws.ToString(input.ImageIds[0].ImageTag) == "ubuntu-20.04_clang-7x_latest" &&
			input.RegistryId == nil
	})).Return(&ecr.DescribeImagesOutput{
		ImageDetails: []ecrtypes.ImageDetail{{ImageTags: []string{"ubuntu-20.04_clang-7x_latest"}}},
	}, nil)

	exists, err := NewECROperationsWithClient(client).ImageExists(ctx, imageInput())

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestImageExists_RegistryID(t *testing.T) {
	ctx := context.Background()
	client := &MockECRClient{}
	client.On("DescribeImages", ctx, mock.MatchedBy(func(input *ecr.DescribeImagesInput) bool {
		return aws.ToString(input.RegistryId) == "123456789012"
	})).Return(&ecr.DescribeImagesOutput{}, nil)

	input := imageInput()
	input.RegistryID = "123456789012"
	exists, err := NewECROperationsWithClient(client).ImageExists(ctx, input)

	require.NoError(t, err)
	assert.False(t, exists)
}

func TestImageExists_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("tag missing", func(t *testing.T) {
		client := &MockECRClient{}
		client.On("DescribeImages", ctx, mock.Anything).Return(nil, &ecrtypes.ImageNotFoundException{Message: aws.String("not found")})

		exists, err := NewECROperationsWithClient(client).ImageExists(ctx, imageInput())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("repository missing", func(t *testing.T) {
		client := &MockECRClient{}
		client.On("DescribeImages", ctx, mock.Anything).Return(nil, &ecrtypes.RepositoryNotFoundException{Message: aws.String("no repo")})

		_, err := NewECROperationsWithClient(client).ImageExists(ctx, imageInput())
		assert.ErrorIs(t, err, ErrRepositoryNotFound)
		assert.ErrorContains(t, err, "aws-lc-docker-images-linux-x86")
	})

	t.Run("other failure", func(t *testing.T) {
		client := &MockECRClient{}
		client.On("DescribeImages", ctx, mock.Anything).Return(nil, errors.New("AccessDenied"))

		_, err := NewECROperationsWithClient(client).ImageExists(ctx, imageInput())
		assert.ErrorContains(t, err, "failed to describe image aws-lc-docker-images-linux-x86:ubuntu-20.04_clang-7x_latest")
	})
}
