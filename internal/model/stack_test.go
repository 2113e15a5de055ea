/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_GetTemplateContent(t *testing.T) {
	tests := []struct {
		name         string
		templateBody string
	}{
		{name: "json template", templateBody: `{"AWSTemplateFormatVersion": "2010-09-09"}`},
		{name: "yaml template", templateBody: "AWSTemplateFormatVersion: '2010-09-09'"},
		{name: "empty template", templateBody: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stack{Name: "aws-lc-ci", TemplateBody: tt.templateBody}

			content, err := s.GetTemplateContent()

			require.NoError(t, err)
			assert.Equal(t, tt.templateBody, content)
		})
	}
}

func TestStack_Region(t *testing.T) {
	s := NewTestStack("aws-lc-ci", NewTestContext("prod", "us-west-2", "111111111111"))
	assert.Equal(t, "us-west-2", s.Region())

	unbound := &Stack{Name: "unbound"}
	assert.Equal(t, "", unbound.Region())
}

func TestNewTestStack_Defaults(t *testing.T) {
	s := NewTestStack("aws-lc-ci", nil)

	require.NotNil(t, s.Context)
	assert.Equal(t, "test", s.Context.Name)
	assert.Equal(t, "us-east-1", s.Context.Region)
	assert.Equal(t, []string{"CAPABILITY_IAM"}, s.Capabilities)
	assert.Empty(t, s.Tags)
}

func TestImageReference_String(t *testing.T) {
	image := &ImageReference{Repository: "aws-lc-docker-images-linux-x86", Tag: "ubuntu-22.04_latest"}
	assert.Equal(t, "aws-lc-docker-images-linux-x86:ubuntu-22.04_latest", image.String())
}
