/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Stacks(t *testing.T) {
	app := NewApp()

	a, err := NewStack(app, "a", Props{})
	require.NoError(t, err)
	b, err := NewStack(app, "b", Props{Description: "second"})
	require.NoError(t, err)

	assert.Equal(t, []*Stack{a, b}, app.Stacks())

	found, ok := app.Stack("b")
	assert.True(t, ok)
	assert.Same(t, b, found)

	_, ok = app.Stack("missing")
	assert.False(t, ok)
}

func TestNewStack_Errors(t *testing.T) {
	app := NewApp()
	_, err := NewStack(app, "dup", Props{})
	require.NoError(t, err)

	_, err = NewStack(app, "dup", Props{})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = NewStack(app, "", Props{})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestStack_TagsAreCopied(t *testing.T) {
	tags := map[string]string{"team": "crypto"}
	s, err := NewStack(NewApp(), "tagged", Props{Tags: tags, Env: Environment{Region: "eu-west-1"}})
	require.NoError(t, err)

	tags["team"] = "changed"
	got := s.Tags()
	got["extra"] = "x"

	assert.Equal(t, map[string]string{"team": "crypto"}, s.Tags())
	assert.Equal(t, "eu-west-1", s.Env().Region)
}

func TestStack_SynthesizeEmpty(t *testing.T) {
	s, err := NewStack(NewApp(), "empty", Props{Description: "nothing here"})
	require.NoError(t, err)

	template, err := s.Synthesize()
	require.NoError(t, err)

	assert.Equal(t, "nothing here", template.Description)
	assert.Empty(t, template.Resources)
}

func TestImageVariant(t *testing.T) {
	assert.Equal(t, "linux", ImageVariantLinux.String())
	assert.Equal(t, "windows", ImageVariantWindows.String())
	assert.Equal(t, "LINUX_CONTAINER", ImageVariantLinux.EnvironmentType())
	assert.Equal(t, "WINDOWS_CONTAINER", ImageVariantWindows.EnvironmentType())
}
