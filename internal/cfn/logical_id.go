/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cfn

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const (
	maxLogicalIDLength = 255
	maxHumanPartLength = 240
	hashLength         = 8

	// hiddenID is dropped from the path entirely
	hiddenID = "Default"
	// hiddenFromHumanID is hashed but never shown in the readable part
	hiddenFromHumanID = "Resource"
)

// LogicalID derives a stable CloudFormation logical id from a construct path,
// producing the same ids the AWS CDK does for the same path. A single
// component is used as-is once non-alphanumerics are stripped. Longer paths
// get a readable prefix plus an 8 character hash of the full path, so
// distinct paths never collide after stripping.
func LogicalID(path ...string) string {
	components := make([]string, 0, len(path))
	for _, component := range path {
		if component != hiddenID {
			components = append(components, component)
		}
	}

	if len(components) == 1 {
		if candidate := alphanumeric(components[0]); len(candidate) <= maxLogicalIDLength {
			return candidate
		}
	}

	var human strings.Builder
	for _, component := range removeDupes(components) {
		if component == hiddenFromHumanID {
			continue
		}
		human.WriteString(alphanumeric(component))
	}

	humanPart := human.String()
	if len(humanPart) > maxHumanPartLength {
		humanPart = humanPart[:maxHumanPartLength]
	}
	return humanPart + pathHash(components)
}

func pathHash(components []string) string {
	sum := md5.Sum([]byte(strings.Join(components, "/")))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:hashLength]
}

// removeDupes drops a component when the one before it already ends with it
func removeDupes(components []string) []string {
	var result []string
	for _, component := range components {
		if len(result) == 0 || !strings.HasSuffix(result[len(result)-1], component) {
			result = append(result, component)
		}
	}
	return result
}

func alphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
