/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagComparator_Compare(t *testing.T) {
	tests := []struct {
		name     string
		current  map[string]string
		proposed map[string]string
		expected []TagDiff
	}{
		{
			name:     "identical",
			current:  map[string]string{"team": "crypto"},
			proposed: map[string]string{"team": "crypto"},
			expected: nil,
		},
		{
			name:     "all new",
			current:  nil,
			proposed: map[string]string{"team": "crypto", "env": "prod"},
			expected: []TagDiff{
				{Key: "env", ProposedValue: "prod", ChangeType: ChangeTypeAdd},
				{Key: "team", ProposedValue: "crypto", ChangeType: ChangeTypeAdd},
			},
		},
		{
			name:     "mixed",
			current:  map[string]string{"team": "crypto", "owner": "alice"},
			proposed: map[string]string{"team": "platform", "cost": "ci"},
			expected: []TagDiff{
				{Key: "cost", ProposedValue: "ci", ChangeType: ChangeTypeAdd},
				{Key: "owner", CurrentValue: "alice", ChangeType: ChangeTypeRemove},
				{Key: "team", CurrentValue: "crypto", ProposedValue: "platform", ChangeType: ChangeTypeModify},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diffs, err := NewTagComparator().Compare(tt.current, tt.proposed)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, diffs)
		})
	}
}
