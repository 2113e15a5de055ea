/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

// StructuredTemplateComparator compares templates by content, so a JSON
// template and its YAML rendering compare equal
type StructuredTemplateComparator struct{}

// NewTemplateComparator creates a new template comparator
func NewTemplateComparator() TemplateComparator {
	return &StructuredTemplateComparator{}
}

// Compare compares two CloudFormation templates and returns the differences
func (c *StructuredTemplateComparator) Compare(ctx context.Context, currentTemplate, proposedTemplate string) (*TemplateChange, error) {
	currentData, err := parseTemplate(currentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current template: %w", err)
	}

	proposedData, err := parseTemplate(proposedTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proposed template: %w", err)
	}

	change := &TemplateChange{
		CurrentHash:  hashTemplate(currentData),
		ProposedHash: hashTemplate(proposedData),
	}
	if reflect.DeepEqual(currentData, proposedData) {
		return change, nil
	}

	change.HasChanges = true
	change.Resources = compareResources(resourcesSection(currentData), resourcesSection(proposedData))
	change.Sections = compareSections(currentData, proposedData)

	return change, nil
}

// NewResources lists every resource of a template as an addition
func NewResources(template string) ([]ResourceDiff, error) {
	data, err := parseTemplate(template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return compareResources(nil, resourcesSection(data)), nil
}

func parseTemplate(template string) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(template), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// hashTemplate returns a short digest of the template's canonical JSON form
func hashTemplate(data map[string]interface{}) string {
	canonical, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(canonical))[:12]
}

func resourcesSection(data map[string]interface{}) map[string]interface{} {
	if resources, ok := data["Resources"].(map[string]interface{}); ok {
		return resources
	}
	return nil
}

func compareResources(current, proposed map[string]interface{}) []ResourceDiff {
	var diffs []ResourceDiff

	for _, name := range unionKeys(current, proposed) {
		currentResource, inCurrent := current[name]
		proposedResource, inProposed := proposed[name]

		switch {
		case !inCurrent:
			diffs = append(diffs, ResourceDiff{LogicalID: name, ResourceType: resourceType(proposedResource), ChangeType: ChangeTypeAdd})
		case !inProposed:
			diffs = append(diffs, ResourceDiff{LogicalID: name, ResourceType: resourceType(currentResource), ChangeType: ChangeTypeRemove})
		case !reflect.DeepEqual(currentResource, proposedResource):
			diffs = append(diffs, ResourceDiff{LogicalID: name, ResourceType: resourceType(proposedResource), ChangeType: ChangeTypeModify})
		}
	}

	return diffs
}

func compareSections(current, proposed map[string]interface{}) []SectionDiff {
	var diffs []SectionDiff

	for _, name := range unionKeys(current, proposed) {
		if name == "Resources" {
			continue
		}
		currentSection, inCurrent := current[name]
		proposedSection, inProposed := proposed[name]

		switch {
		case !inCurrent:
			diffs = append(diffs, SectionDiff{Name: name, ChangeType: ChangeTypeAdd})
		case !inProposed:
			diffs = append(diffs, SectionDiff{Name: name, ChangeType: ChangeTypeRemove})
		case !reflect.DeepEqual(currentSection, proposedSection):
			diffs = append(diffs, SectionDiff{Name: name, ChangeType: ChangeTypeModify})
		}
	}

	return diffs
}

func resourceType(resource interface{}) string {
	if resourceMap, ok := resource.(map[string]interface{}); ok {
		if typeName, ok := resourceMap["Type"].(string); ok {
			return typeName
		}
	}
	return "Unknown"
}

func unionKeys(a, b map[string]interface{}) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
