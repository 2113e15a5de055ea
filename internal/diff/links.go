/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"fmt"
	"strings"
)

const resourceDocsBaseURL = "https://docs.aws.amazon.com/AWSCloudFormation/latest/TemplateReference"

// ResourceTypeURL returns the reference page for an AWS resource type such as
// AWS::CodeBuild::Project. Other type names have no page and return "".
func ResourceTypeURL(resourceType string) string {
	parts := strings.Split(resourceType, "::")
	if len(parts) != 3 || parts[0] != "AWS" || parts[1] == "" || parts[2] == "" {
		return ""
	}
	return fmt.Sprintf("%s/aws-resource-%s-%s.html", resourceDocsBaseURL, strings.ToLower(parts[1]), strings.ToLower(parts[2]))
}

// hyperlink wraps text in an OSC 8 terminal hyperlink
func hyperlink(url, text string) string {
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

// resourceTypeLabel renders a resource type, linked to its docs when colour is on
func (s *Styles) resourceTypeLabel(resourceType string) string {
	label := s.Subtle.Render(resourceType)
	if !s.UseColour {
		return label
	}
	if url := ResourceTypeURL(resourceType); url != "" {
		return hyperlink(url, label)
	}
	return label
}
