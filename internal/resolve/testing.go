/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"context"

	"github.com/orien/cistack/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockResolver implements Resolver for testing
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveStack(ctx context.Context, contextName, stackName string) (*model.Stack, error) {
	args := m.Called(ctx, contextName, stackName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stack), args.Error(1)
}

func (m *MockResolver) ResolveStacks(ctx context.Context, contextName string, stackNames []string) ([]*model.Stack, error) {
	args := m.Called(ctx, contextName, stackNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Stack), args.Error(1)
}
