/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package synth writes synthesized stacks to an output directory.
package synth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/orien/cistack/internal/cfn"
	"github.com/orien/cistack/internal/model"
	"github.com/sirupsen/logrus"
)

// DefaultOutputDir is where templates are written when no directory is given
const DefaultOutputDir = "cistack.out"

// ManifestFile is the name of the manifest written alongside the templates
const ManifestFile = "manifest.json"

// Manifest describes the templates in an output directory
type Manifest struct {
	Version string                    `json:"version"`
	Stacks  map[string]*ManifestEntry `json:"stacks"`
}

// ManifestEntry records where a stack's template was written and its target
type ManifestEntry struct {
	Template     string            `json:"template"`
	Context      string            `json:"context,omitempty"`
	Account      string            `json:"account,omitempty"`
	Region       string            `json:"region,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	Capabilities []string          `json:"capabilities,omitempty"`
}

const manifestVersion = "1"

// Synthesizer writes stack templates and a manifest to disk
type Synthesizer struct {
	format string
}

// NewSynthesizer creates a synthesizer rendering templates in the given
// format: json (the default) or yaml
func NewSynthesizer(format string) (*Synthesizer, error) {
	switch format {
	case "", "json":
		return &Synthesizer{format: "json"}, nil
	case "yaml", "yml":
		return &Synthesizer{format: "yaml"}, nil
	default:
		return nil, fmt.Errorf("unsupported template format %q", format)
	}
}

// TemplateFileName returns the file a stack's template is written to
func (s *Synthesizer) TemplateFileName(stackName string) string {
	return stackName + ".template." + s.format
}

// Write renders every stack into dir and records them in the manifest.
// Each file is replaced atomically.
func (s *Synthesizer) Write(dir string, stacks []*model.Stack) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	manifest := &Manifest{
		Version: manifestVersion,
		Stacks:  make(map[string]*ManifestEntry, len(stacks)),
	}

	for _, stack := range stacks {
		body, err := s.render(stack)
		if err != nil {
			return nil, fmt.Errorf("failed to render stack %s: %w", stack.Name, err)
		}

		fileName := s.TemplateFileName(stack.Name)
		path := filepath.Join(dir, fileName)
		if err := renameio.WriteFile(path, body, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write template %s: %w", path, err)
		}
		logrus.WithFields(logrus.Fields{"stack": stack.Name, "path": path}).Debug("wrote template")

		entry := &ManifestEntry{
			Template:     fileName,
			Capabilities: stack.Capabilities,
		}
		if len(stack.Tags) > 0 {
			entry.Tags = stack.Tags
		}
		if stack.Context != nil {
			entry.Context = stack.Context.Name
			entry.Account = stack.Context.Account
			entry.Region = stack.Context.Region
		}
		manifest.Stacks[stack.Name] = entry
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := renameio.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest %s: %w", path, err)
	}

	return manifest, nil
}

func (s *Synthesizer) render(stack *model.Stack) ([]byte, error) {
	body, err := stack.GetTemplateContent()
	if err != nil {
		return nil, err
	}
	if s.format == "json" {
		return []byte(body), nil
	}
	return cfn.Render([]byte(body), s.format)
}

// ReadManifest loads the manifest from an output directory
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &manifest, nil
}
