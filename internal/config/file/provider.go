/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package file

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/orien/cistack/internal/config"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file read when none is given
const DefaultFilename = "cistack.yaml"

//go:embed schema.json
var schema []byte

// Provider implements config.ConfigProvider by reading from a YAML file
type Provider struct {
	filename  string
	data      []byte
	rawConfig *Config
}

// NewProvider creates a new file-based ConfigProvider for the given filename
func NewProvider(filename string) *Provider {
	return &Provider{
		filename: filename,
	}
}

// NewDefaultProvider creates a provider reading cistack.yaml from the working directory
func NewDefaultProvider() *Provider {
	return NewProvider(DefaultFilename)
}

// LoadConfig loads and resolves configuration for the specified context
func (fp *Provider) LoadConfig(ctx context.Context, contextName string) (*config.Config, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}

	rawContext, exists := fp.rawConfig.Contexts[contextName]
	if !exists {
		return nil, fmt.Errorf("context '%s' not found in configuration", contextName)
	}

	names := fp.stackNames()
	stacks := make([]*config.StackConfig, 0, len(names))
	for _, name := range names {
		stacks = append(stacks, fp.resolveStack(name, fp.rawConfig.Stacks[name], contextName))
	}

	return &config.Config{
		Project: fp.rawConfig.Project,
		Region:  fp.rawConfig.Region,
		Tags:    copyStringMap(fp.rawConfig.Tags),
		Context: fp.resolveContext(contextName, rawContext),
		Stacks:  stacks,
	}, nil
}

// ListContexts returns all available contexts in the configuration
func (fp *Provider) ListContexts() ([]string, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}

	contexts := make([]string, 0, len(fp.rawConfig.Contexts))
	for name := range fp.rawConfig.Contexts {
		contexts = append(contexts, name)
	}
	sort.Strings(contexts)

	return contexts, nil
}

// ListStacks returns the stack names available in a context
func (fp *Provider) ListStacks(contextName string) ([]string, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}

	if _, exists := fp.rawConfig.Contexts[contextName]; !exists {
		return nil, fmt.Errorf("context '%s' not found in configuration", contextName)
	}

	return fp.stackNames(), nil
}

// GetStack returns stack configuration for a specific stack and context
func (fp *Provider) GetStack(stackName, contextName string) (*config.StackConfig, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}

	if _, exists := fp.rawConfig.Contexts[contextName]; !exists {
		return nil, fmt.Errorf("context '%s' not found in configuration", contextName)
	}

	rawStack, exists := fp.rawConfig.Stacks[stackName]
	if !exists {
		return nil, fmt.Errorf("stack '%s' not found in configuration", stackName)
	}

	return fp.resolveStack(stackName, rawStack, contextName), nil
}

// Validate checks the document against the configuration schema, then checks
// that every stack override names a defined context
func (fp *Provider) Validate() error {
	if err := fp.ensureLoaded(); err != nil {
		return err
	}

	if err := validateSchema(fp.data); err != nil {
		return fmt.Errorf("config file '%s' is invalid: %w", fp.filename, err)
	}

	for _, name := range fp.stackNames() {
		overrides := make([]string, 0, len(fp.rawConfig.Stacks[name].Contexts))
		for contextName := range fp.rawConfig.Stacks[name].Contexts {
			overrides = append(overrides, contextName)
		}
		sort.Strings(overrides)

		for _, contextName := range overrides {
			if _, exists := fp.rawConfig.Contexts[contextName]; !exists {
				return fmt.Errorf("stack '%s' references undefined context '%s'", name, contextName)
			}
		}
	}

	return nil
}

// ensureLoaded loads the raw configuration from file if not already loaded
func (fp *Provider) ensureLoaded() error {
	if fp.rawConfig != nil {
		return nil
	}

	data, err := os.ReadFile(fp.filename)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", fp.filename, err)
	}

	var rawConfig Config
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return fmt.Errorf("failed to parse YAML config file '%s': %w", fp.filename, err)
	}

	fp.data = data
	fp.rawConfig = &rawConfig
	return nil
}

func (fp *Provider) stackNames() []string {
	names := make([]string, 0, len(fp.rawConfig.Stacks))
	for name := range fp.rawConfig.Stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveContext applies global defaults to a context; context tags win over global tags
func (fp *Provider) resolveContext(name string, rawContext *Context) *config.ContextConfig {
	resolved := &config.ContextConfig{Name: name}
	if rawContext != nil {
		resolved.Account = rawContext.Account
		resolved.Region = rawContext.Region
		resolved.Tags = copyStringMap(rawContext.Tags)
	}

	if resolved.Region == "" {
		resolved.Region = fp.rawConfig.Region
	}

	if fp.rawConfig.Tags != nil {
		if resolved.Tags == nil {
			resolved.Tags = make(map[string]string)
		}
		for k, v := range fp.rawConfig.Tags {
			if _, exists := resolved.Tags[k]; !exists {
				resolved.Tags[k] = v
			}
		}
	}

	return resolved
}

// resolveStack applies the context override, if any, to a stack
func (fp *Provider) resolveStack(name string, rawStack *Stack, contextName string) *config.StackConfig {
	resolved := &config.StackConfig{
		Name:        name,
		ECRRepo:     rawStack.ECRRepo,
		ImageTag:    rawStack.ImageTag,
		BuildSpec:   rawStack.BuildSpec,
		Windows:     rawStack.Windows,
		Privileged:  rawStack.Privileged,
		Description: rawStack.Description,
		Tags:        copyStringMap(rawStack.Tags),
	}

	override := rawStack.Contexts[contextName]
	if override == nil {
		return resolved
	}

	if override.ImageTag != nil {
		resolved.ImageTag = *override.ImageTag
	}
	if override.BuildSpec != nil {
		resolved.BuildSpec = *override.BuildSpec
	}
	if override.Privileged != nil {
		resolved.Privileged = *override.Privileged
	}
	if override.Tags != nil {
		if resolved.Tags == nil {
			resolved.Tags = make(map[string]string)
		}
		for k, v := range override.Tags {
			resolved.Tags[k] = v
		}
	}

	return resolved
}

// validateSchema checks a YAML document against the embedded JSON schema
func validateSchema(data []byte) error {
	var document interface{}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return fmt.Errorf("failed to validate against schema: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	sort.Strings(problems)
	return fmt.Errorf("%d schema violation(s):\n  - %s", len(problems), strings.Join(problems, "\n  - "))
}

func copyStringMap(source map[string]string) map[string]string {
	if source == nil {
		return nil
	}

	result := make(map[string]string, len(source))
	for k, v := range source {
		result[k] = v
	}
	return result
}
