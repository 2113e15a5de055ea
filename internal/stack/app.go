/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package stack declares the cloud resources of a CI build stack as an
// in-memory construct tree and synthesizes it into a CloudFormation template.
// Nothing here talks to AWS; the template is handed to CloudFormation, which
// owns creating, diffing and rolling back the declared resources.
package stack

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidID is returned when a construct id is empty or malformed
	ErrInvalidID = errors.New("invalid construct id")
	// ErrDuplicateID is returned when a construct id is already used within its scope
	ErrDuplicateID = errors.New("duplicate construct id")
)

// App is the root scope that owns stacks
type App struct {
	stacks []*Stack
	ids    map[string]struct{}
}

// NewApp creates an empty app
func NewApp() *App {
	return &App{
		ids: make(map[string]struct{}),
	}
}

// Stacks returns the stacks in the order they were added
func (a *App) Stacks() []*Stack {
	return a.stacks
}

// Stack returns the stack with the given id
func (a *App) Stack(id string) (*Stack, bool) {
	for _, s := range a.stacks {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

func (a *App) register(s *Stack) error {
	if err := validateID(s.id); err != nil {
		return err
	}
	if _, exists := a.ids[s.id]; exists {
		return fmt.Errorf("%w: stack %q already exists in app", ErrDuplicateID, s.id)
	}
	a.ids[s.id] = struct{}{}
	a.stacks = append(a.stacks, s)
	return nil
}

// validateID rejects ids that cannot form a construct path
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidID)
	}
	if strings.Contains(id, "/") {
		return fmt.Errorf("%w: id %q cannot contain '/'", ErrInvalidID, id)
	}
	return nil
}
