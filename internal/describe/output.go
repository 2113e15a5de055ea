/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatStackDescription formats stack information for display
func FormatStackDescription(desc *StackDescription) string {
	var output strings.Builder

	fmt.Fprintf(&output, "Stack: %s\n", desc.Name)
	if desc.Context != "" {
		fmt.Fprintf(&output, "Context: %s\n", desc.Context)
	}
	if desc.Region != "" {
		fmt.Fprintf(&output, "Region: %s\n", desc.Region)
	}
	fmt.Fprintf(&output, "Status: %s\n", desc.Status)
	if !desc.CreatedTime.IsZero() {
		fmt.Fprintf(&output, "Created: %s\n", formatTime(desc.CreatedTime))
	}
	if desc.UpdatedTime != nil {
		fmt.Fprintf(&output, "Updated: %s\n", formatTime(*desc.UpdatedTime))
	}
	if desc.Description != "" {
		fmt.Fprintf(&output, "Description: %s\n", desc.Description)
	}

	if len(desc.Resources) > 0 {
		output.WriteString("\nResources:\n")
		for _, resource := range desc.Resources {
			fmt.Fprintf(&output, "  %s (%s)\n", resource.LogicalID, resource.Type)
		}
	}

	if len(desc.Outputs) > 0 {
		output.WriteString("\nOutputs:\n")
		writeKeyValueMap(&output, desc.Outputs)
	}

	if len(desc.Tags) > 0 {
		output.WriteString("\nTags:\n")
		writeKeyValueMap(&output, desc.Tags)
	}

	return output.String()
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}

// writeKeyValueMap writes a map as indented key-value pairs sorted by key
func writeKeyValueMap(output *strings.Builder, m map[string]string) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(output, "  %s: %s\n", key, m[key])
	}
}
