/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"sort"
)

// DefaultTagComparator implements TagComparator interface
type DefaultTagComparator struct{}

// NewTagComparator creates a new tag comparator
func NewTagComparator() TagComparator {
	return &DefaultTagComparator{}
}

// Compare compares current and proposed tags, returning differences sorted by key
func (c *DefaultTagComparator) Compare(currentTags, proposedTags map[string]string) ([]TagDiff, error) {
	var diffs []TagDiff

	for key, proposedValue := range proposedTags {
		currentValue, exists := currentTags[key]
		switch {
		case !exists:
			diffs = append(diffs, TagDiff{Key: key, ProposedValue: proposedValue, ChangeType: ChangeTypeAdd})
		case currentValue != proposedValue:
			diffs = append(diffs, TagDiff{Key: key, CurrentValue: currentValue, ProposedValue: proposedValue, ChangeType: ChangeTypeModify})
		}
	}

	for key, currentValue := range currentTags {
		if _, exists := proposedTags[key]; !exists {
			diffs = append(diffs, TagDiff{Key: key, CurrentValue: currentValue, ChangeType: ChangeTypeRemove})
		}
	}

	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i].Key < diffs[j].Key
	})

	return diffs, nil
}
