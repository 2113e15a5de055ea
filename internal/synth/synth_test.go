/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package synth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orien/cistack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBody = `{
 "AWSTemplateFormatVersion": "2010-09-09",
 "Description": "test build",
 "Resources": {
  "Project": {
   "Type": "AWS::CodeBuild::Project",
   "Properties": {
    "Name": "aws-lc-ci"
   }
  }
 }
}
`

func testStacks() []*model.Stack {
	linux := model.NewTestStack("aws-lc-ci-linux", model.NewTestContext("prod", "us-west-2", "123456789012"))
	linux.TemplateBody = testBody
	linux.Tags = map[string]string{"env": "prod"}

	windows := model.NewTestStack("aws-lc-ci-windows", model.NewTestContext("prod", "us-west-2", "123456789012"))
	windows.TemplateBody = testBody
	return []*model.Stack{linux, windows}
}

func TestNewSynthesizer(t *testing.T) {
	tests := []struct {
		format   string
		fileName string
		wantErr  bool
	}{
		{"", "ci.template.json", false},
		{"json", "ci.template.json", false},
		{"yaml", "ci.template.yaml", false},
		{"yml", "ci.template.yaml", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s, err := NewSynthesizer(tt.format)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported template format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.fileName, s.TemplateFileName("ci"))
		})
	}
}

func TestSynthesizer_Write_JSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewSynthesizer("json")
	require.NoError(t, err)

	manifest, err := s.Write(dir, testStacks())
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "aws-lc-ci-linux.template.json"))
	require.NoError(t, err)
	assert.Equal(t, testBody, string(body))

	require.Contains(t, manifest.Stacks, "aws-lc-ci-linux")
	entry := manifest.Stacks["aws-lc-ci-linux"]
	assert.Equal(t, "aws-lc-ci-linux.template.json", entry.Template)
	assert.Equal(t, "prod", entry.Context)
	assert.Equal(t, "123456789012", entry.Account)
	assert.Equal(t, "us-west-2", entry.Region)
	assert.Equal(t, map[string]string{"env": "prod"}, entry.Tags)
	assert.Equal(t, []string{"CAPABILITY_IAM"}, entry.Capabilities)

	read, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, manifest, read)
}

func TestSynthesizer_Write_YAML(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSynthesizer("yaml")
	require.NoError(t, err)

	_, err = s.Write(dir, testStacks())
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "aws-lc-ci-windows.template.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Type: AWS::CodeBuild::Project")
	assert.Contains(t, string(body), "Description: test build")
}

func TestSynthesizer_Write_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aws-lc-ci-linux.template.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	s, err := NewSynthesizer("")
	require.NoError(t, err)
	_, err = s.Write(dir, testStacks())
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testBody, string(body))
}

func TestSynthesizer_Write_InvalidBodyForYAML(t *testing.T) {
	stack := model.NewTestStack("broken", model.NewDefaultTestContext())
	stack.TemplateBody = "{not valid"

	s, err := NewSynthesizer("yaml")
	require.NoError(t, err)

	_, err = s.Write(t.TempDir(), []*model.Stack{stack})
	assert.ErrorContains(t, err, "failed to render stack broken")
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	assert.ErrorContains(t, err, "failed to read manifest")
}
