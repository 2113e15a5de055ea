/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/orien/cistack/internal/config"
	"github.com/orien/cistack/internal/env"
	"github.com/orien/cistack/internal/model"
	"github.com/orien/cistack/internal/stack"
	"github.com/sirupsen/logrus"
)

// Capabilities acknowledged for every build stack, which always declares an IAM role
var defaultCapabilities = []string{"CAPABILITY_IAM"}

// Resolver turns configured stacks into synthesized, deployment-ready stacks
type Resolver interface {
	ResolveStack(ctx context.Context, contextName, stackName string) (*model.Stack, error)
	ResolveStacks(ctx context.Context, contextName string, stackNames []string) ([]*model.Stack, error)
}

// StackResolver resolves configuration into synthesized CodeBuild stacks
type StackResolver struct {
	configProvider config.ConfigProvider
	processor      TemplateProcessor
	lookup         env.Lookup
}

// NewStackResolver creates a new stack resolver instance with the given config provider
func NewStackResolver(configProvider config.ConfigProvider) *StackResolver {
	return &StackResolver{
		configProvider: configProvider,
		processor:      NewSprigProcessor(),
	}
}

// SetTemplateProcessor replaces the processor used to render configuration values
func (r *StackResolver) SetTemplateProcessor(processor TemplateProcessor) {
	r.processor = processor
}

// SetLookup sets where the GitHub repository owner and name are read from.
// A nil lookup reads the process environment.
func (r *StackResolver) SetLookup(lookup env.Lookup) {
	r.lookup = lookup
}

// ResolveStack resolves and synthesizes a single stack
func (r *StackResolver) ResolveStack(ctx context.Context, contextName, stackName string) (*model.Stack, error) {
	stacks, err := r.ResolveStacks(ctx, contextName, []string{stackName})
	if err != nil {
		return nil, err
	}
	return stacks[0], nil
}

// ResolveStacks resolves the named stacks, or every configured stack when no
// names are given. Stacks are declared in name order within a single app, so
// a repeated name fails as a duplicate.
func (r *StackResolver) ResolveStacks(ctx context.Context, contextName string, stackNames []string) ([]*model.Stack, error) {
	cfg, err := r.configProvider.LoadConfig(ctx, contextName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	names := append([]string(nil), stackNames...)
	if len(names) == 0 {
		names, err = r.configProvider.ListStacks(contextName)
		if err != nil {
			return nil, fmt.Errorf("failed to list stacks: %w", err)
		}
	}
	sort.Strings(names)

	app := stack.NewApp()
	resolved := make([]*model.Stack, 0, len(names))
	for _, name := range names {
		stackConfig, err := r.configProvider.GetStack(name, contextName)
		if err != nil {
			return nil, fmt.Errorf("failed to get stack %s: %w", name, err)
		}

		s, err := r.resolve(app, cfg, stackConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stack %s: %w", name, err)
		}
		resolved = append(resolved, s)
	}

	return resolved, nil
}

func (r *StackResolver) resolve(app *stack.App, cfg *config.Config, stackConfig *config.StackConfig) (*model.Stack, error) {
	target := bindContext(cfg)
	variables := map[string]interface{}{
		"Context": target.Name,
		"Region":  target.Region,
		"Account": target.Account,
		"Project": cfg.Project,
	}

	render := func(field, value string) (string, error) {
		rendered, err := r.processor.Process(value, variables)
		if err != nil {
			return "", fmt.Errorf("failed to render %s: %w", field, err)
		}
		return rendered, nil
	}

	repoName, err := render("ecr_repo", stackConfig.ECRRepo)
	if err != nil {
		return nil, err
	}
	imageTag, err := render("image_tag", stackConfig.ImageTag)
	if err != nil {
		return nil, err
	}
	buildSpec, err := render("build_spec", stackConfig.BuildSpec)
	if err != nil {
		return nil, err
	}
	description, err := render("description", stackConfig.Description)
	if err != nil {
		return nil, err
	}

	tags, err := r.mergeTags(variables, cfg.Tags, contextTags(cfg), stackConfig.Tags)
	if err != nil {
		return nil, err
	}

	built, err := stack.NewGitHubCodeBuildStack(app, stackConfig.Name, stack.GitHubCodeBuildProps{
		ECRRepoName:    repoName,
		DockerImageTag: imageTag,
		BuildSpecFile:  buildSpec,
		IsWindows:      stackConfig.Windows,
		Privileged:     stackConfig.Privileged,
		Description:    description,
		Tags:           tags,
		Env: stack.Environment{
			Account: target.Account,
			Region:  target.Region,
		},
		Lookup: r.lookup,
	})
	if err != nil {
		return nil, err
	}

	body, err := built.TemplateBody("json")
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"stack":   built.ID(),
		"context": target.Name,
		"image":   built.Image.Repository.Name + ":" + built.Image.Tag,
		"variant": built.Image.Variant.String(),
		"source":  built.Source.Repository.String(),
	}).Debug("synthesized stack")

	return &model.Stack{
		Name:         built.ID(),
		Context:      target,
		TemplateBody: body,
		Tags:         tags,
		Capabilities: append([]string(nil), defaultCapabilities...),
		Image: &model.ImageReference{
			RegistryID: target.Account,
			Repository: repoName,
			Tag:        imageTag,
		},
	}, nil
}

// mergeTags layers tag sets in order, later sets overriding earlier ones,
// and renders each value
func (r *StackResolver) mergeTags(variables map[string]interface{}, layers ...map[string]string) (map[string]string, error) {
	result := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			rendered, err := r.processor.Process(v, variables)
			if err != nil {
				return nil, fmt.Errorf("failed to render tag %s: %w", k, err)
			}
			result[k] = rendered
		}
	}
	return result, nil
}

func bindContext(cfg *config.Config) *model.Context {
	target := &model.Context{Region: cfg.Region}
	if cfg.Context == nil {
		return target
	}
	target.Name = cfg.Context.Name
	target.Account = cfg.Context.Account
	if cfg.Context.Region != "" {
		target.Region = cfg.Context.Region
	}
	return target
}

func contextTags(cfg *config.Config) map[string]string {
	if cfg.Context == nil {
		return nil
	}
	return cfg.Context.Tags
}
