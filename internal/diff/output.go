/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/orien/cistack/internal/aws"
)

// Text returns a human-readable representation of the diff
func (r *Result) Text(styles *Styles) string {
	var output strings.Builder

	title := styles.HeaderTitle.Render(fmt.Sprintf("Stack: %s", r.StackName))
	if r.Context != "" {
		title += styles.Subtle.Render(fmt.Sprintf(" (Context: %s)", r.Context))
	}
	output.WriteString(title)
	output.WriteString("\n")
	output.WriteString(strings.Repeat("=", 60))
	output.WriteString("\n\n")

	if !r.StackExists {
		output.WriteString(styles.StatusNew.Render("Status: NEW STACK"))
		output.WriteString("\n")
		output.WriteString("This stack does not exist in AWS and will be created.\n\n")
		r.writeResources(&output, styles, "Resources to be created:")
		r.writeTags(&output, styles, "Tags to be set:")
		return output.String()
	}

	if !r.HasChanges() {
		output.WriteString(styles.StatusNoChange.Render("Status: NO CHANGES"))
		output.WriteString("\n")
		output.WriteString("The deployed stack matches the synthesized template.\n")
		return output.String()
	}

	output.WriteString(styles.StatusChanges.Render("Status: CHANGES DETECTED"))
	output.WriteString("\n\n")

	if r.TemplateChange != nil && r.TemplateChange.HasChanges {
		r.writeTemplateSummary(&output, styles)
		r.writeResources(&output, styles, "Resource changes:")
		r.writeSections(&output, styles)
	}
	r.writeTags(&output, styles, "Tag changes:")

	if r.ChangeSet != nil {
		WriteChangeSet(&output, styles, r.ChangeSet)
	}

	return output.String()
}

func (r *Result) writeTemplateSummary(output *strings.Builder, styles *Styles) {
	output.WriteString(styles.SectionHeader.Render("Template Changes:"))
	output.WriteString("\n")
	fmt.Fprintf(output, "  %s %s %s\n",
		styles.Subtle.Render(r.TemplateChange.CurrentHash),
		styles.Arrow.Render("->"),
		r.TemplateChange.ProposedHash)
	fmt.Fprintf(output, "  %d to add, %d to modify, %d to remove\n\n",
		r.TemplateChange.Count(ChangeTypeAdd),
		r.TemplateChange.Count(ChangeTypeModify),
		r.TemplateChange.Count(ChangeTypeRemove))
}

func (r *Result) writeResources(output *strings.Builder, styles *Styles, heading string) {
	if r.TemplateChange == nil || len(r.TemplateChange.Resources) == 0 {
		return
	}
	output.WriteString(styles.SectionHeader.Render(heading))
	output.WriteString("\n")
	for _, res := range r.TemplateChange.Resources {
		fmt.Fprintf(output, "  %s %s %s\n",
			styles.GetChangeSymbol(res.ChangeType),
			styles.Key.Render(res.LogicalID),
			styles.resourceTypeLabel(res.ResourceType))
	}
	output.WriteString("\n")
}

func (r *Result) writeSections(output *strings.Builder, styles *Styles) {
	if len(r.TemplateChange.Sections) == 0 {
		return
	}
	output.WriteString(styles.SectionHeader.Render("Section changes:"))
	output.WriteString("\n")
	for _, section := range r.TemplateChange.Sections {
		fmt.Fprintf(output, "  %s %s\n", styles.GetChangeSymbol(section.ChangeType), styles.Key.Render(section.Name))
	}
	output.WriteString("\n")
}

func (r *Result) writeTags(output *strings.Builder, styles *Styles, heading string) {
	if len(r.TagDiffs) == 0 {
		return
	}
	output.WriteString(styles.SectionHeader.Render(heading))
	output.WriteString("\n")
	for _, diff := range r.TagDiffs {
		symbol := styles.GetChangeSymbol(diff.ChangeType)
		key := styles.Key.Render(diff.Key)
		switch diff.ChangeType {
		case ChangeTypeAdd:
			fmt.Fprintf(output, "  %s %s: %s\n", symbol, key, diff.ProposedValue)
		case ChangeTypeRemove:
			fmt.Fprintf(output, "  %s %s: %s\n", symbol, key, diff.CurrentValue)
		default:
			fmt.Fprintf(output, "  %s %s: %s %s %s\n", symbol, key, diff.CurrentValue, styles.Arrow.Render("->"), diff.ProposedValue)
		}
	}
	output.WriteString("\n")
}

// WriteChangeSet renders the resource changes CloudFormation predicts for a change set
func WriteChangeSet(output *strings.Builder, styles *Styles, changeSet *aws.ChangeSetInfo) {
	output.WriteString(styles.SectionHeader.Render("AWS CloudFormation Preview:"))
	output.WriteString("\n")

	if len(changeSet.Changes) == 0 {
		output.WriteString("  No resource changes reported\n\n")
		return
	}

	for _, change := range changeSet.Changes {
		line := fmt.Sprintf("  %s %s %s",
			styles.GetChangeSetSymbol(change.Action),
			styles.Key.Render(change.LogicalID),
			styles.resourceTypeLabel(change.ResourceType))
		if change.PhysicalID != "" {
			line += styles.Subtle.Render(fmt.Sprintf(" [%s]", change.PhysicalID))
		}
		if change.Replacement == "True" {
			line += " " + styles.Warning.Render("(replacement)")
		} else if change.Replacement == "Conditional" {
			line += " " + styles.Warning.Render("(may require replacement)")
		}
		output.WriteString(line)
		output.WriteString("\n")
		for _, detail := range change.Details {
			fmt.Fprintf(output, "      %s\n", styles.Subtle.Render(detail))
		}
	}
	output.WriteString("\n")
}

type jsonResult struct {
	StackName      string             `json:"stackName"`
	Context        string             `json:"context,omitempty"`
	StackExists    bool               `json:"stackExists"`
	HasChanges     bool               `json:"hasChanges"`
	TemplateChange *TemplateChange    `json:"templateChanges,omitempty"`
	TagDiffs       []TagDiff          `json:"tagChanges,omitempty"`
	ChangeSet      *aws.ChangeSetInfo `json:"changeSet,omitempty"`
}

// JSON returns the diff as indented JSON
func (r *Result) JSON() string {
	data, err := json.MarshalIndent(jsonResult{
		StackName:      r.StackName,
		Context:        r.Context,
		StackExists:    r.StackExists,
		HasChanges:     r.HasChanges(),
		TemplateChange: r.TemplateChange,
		TagDiffs:       r.TagDiffs,
		ChangeSet:      r.ChangeSet,
	}, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
