/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"fmt"

	"github.com/orien/cistack/internal/env"
)

const (
	codeBuildServicePrincipal = "codebuild.amazonaws.com"
	registryReadOnlyPolicy    = "AmazonEC2ContainerRegistryReadOnly"
	shallowCloneDepth         = 1
)

// GitHubCodeBuildProps configures a GitHub-triggered CodeBuild stack
type GitHubCodeBuildProps struct {
	ECRRepoName    string
	DockerImageTag string
	BuildSpecFile  string
	IsWindows      bool
	Privileged     bool

	Description string
	Tags        map[string]string
	Env         Environment

	// Source overrides the repository; when nil it is read through Lookup
	Source *env.GitHubRepository
	// Lookup resolves GITHUB_REPO_OWNER and GITHUB_REPO; nil reads the process environment
	Lookup env.Lookup
}

// GitHubCodeBuildStack is a stack running a CodeBuild project on pull request events
type GitHubCodeBuildStack struct {
	*Stack

	Repository *ImportedRepository
	Source     *SourceTrigger
	Image      *BuildImage
	Role       *ExecutionRole
	Project    *BuildProject
}

// NewGitHubCodeBuildStack declares the source trigger, build image, execution
// role and build project under a new stack with the given id. The id doubles
// as the project name. The stack joins the app only once fully declared.
func NewGitHubCodeBuildStack(app *App, id string, props GitHubCodeBuildProps) (*GitHubCodeBuildStack, error) {
	repo, err := resolveRepository(props)
	if err != nil {
		return nil, err
	}

	if err := validateID(id); err != nil {
		return nil, err
	}
	s := newStack(id, Props{
		Description: props.Description,
		Tags:        props.Tags,
		Env:         props.Env,
	})

	source := &SourceTrigger{
		Repository:        repo,
		Webhook:           true,
		Events:            append([]EventAction(nil), PullRequestEvents...),
		CloneDepth:        shallowCloneDepth,
		ReportBuildStatus: true,
	}

	ecrRepo := &ImportedRepository{id: repositoryConstructID(props.ECRRepoName), Name: props.ECRRepoName}
	if err := s.addChild(ecrRepo); err != nil {
		return nil, fmt.Errorf("failed to import repository %q: %w", props.ECRRepoName, err)
	}

	image := &BuildImage{
		Repository: ecrRepo,
		Tag:        props.DockerImageTag,
		Variant:    ImageVariantLinux,
	}
	if props.IsWindows {
		image.Variant = ImageVariantWindows
	}

	role := &ExecutionRole{
		id:               id + "-role",
		ServicePrincipal: codeBuildServicePrincipal,
		ManagedPolicies:  []string{registryReadOnlyPolicy},
	}
	if err := s.addChild(role); err != nil {
		return nil, fmt.Errorf("failed to declare role: %w", err)
	}

	project := &BuildProject{
		id:            id,
		Name:          id,
		Source:        source,
		Role:          role,
		Image:         image,
		ComputeType:   ComputeTypeLarge,
		Privileged:    props.Privileged,
		BuildSpecFile: props.BuildSpecFile,
	}
	if err := s.addChild(project); err != nil {
		return nil, fmt.Errorf("failed to declare project: %w", err)
	}
	project.grantDefaults(s)

	if err := app.register(s); err != nil {
		return nil, err
	}

	return &GitHubCodeBuildStack{
		Stack:      s,
		Repository: ecrRepo,
		Source:     source,
		Image:      image,
		Role:       role,
		Project:    project,
	}, nil
}

func resolveRepository(props GitHubCodeBuildProps) (env.GitHubRepository, error) {
	if props.Source != nil {
		return *props.Source, nil
	}
	if props.Lookup != nil {
		return env.GitHubRepositoryFromLookup(props.Lookup), nil
	}
	return env.GitHubRepositoryFromEnvironment()
}
