/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package env resolves settings that come from the process environment.
package env

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

const (
	// RepoOwnerVariable names the GitHub owner of the repository under test
	RepoOwnerVariable = "GITHUB_REPO_OWNER"
	// RepoVariable names the GitHub repository under test
	RepoVariable = "GITHUB_REPO"

	DefaultRepoOwner = "awslabs"
	DefaultRepo      = "aws-lc"
)

// Lookup reads a named value, falling back to a default when it is unset
type Lookup interface {
	Get(name, fallback string) string
}

// OS implements Lookup over the process environment
type OS struct{}

// Get returns the environment variable value, or fallback when the variable is unset.
// A variable set to the empty string is returned as-is.
func (OS) Get(name, fallback string) string {
	if value, ok := os.LookupEnv(name); ok {
		return value
	}
	return fallback
}

// Map implements Lookup over a fixed set of values
type Map map[string]string

// Get returns the mapped value, or fallback when the name is absent
func (m Map) Get(name, fallback string) string {
	if value, ok := m[name]; ok {
		return value
	}
	return fallback
}

// GitHubRepository identifies the source repository a build project watches
type GitHubRepository struct {
	Owner string `envconfig:"GITHUB_REPO_OWNER" default:"awslabs"`
	Name  string `envconfig:"GITHUB_REPO" default:"aws-lc"`
}

// CloneURL returns the HTTPS clone URL of the repository
func (r GitHubRepository) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Name)
}

// String returns owner/name
func (r GitHubRepository) String() string {
	return r.Owner + "/" + r.Name
}

// GitHubRepositoryFromEnvironment reads the repository owner and name from
// GITHUB_REPO_OWNER and GITHUB_REPO, applying the defaults for unset variables
func GitHubRepositoryFromEnvironment() (GitHubRepository, error) {
	var r GitHubRepository
	if err := envconfig.Process("", &r); err != nil {
		return GitHubRepository{}, fmt.Errorf("failed to read GitHub repository from environment: %w", err)
	}
	return r, nil
}

// GitHubRepositoryFromLookup resolves the repository through an arbitrary Lookup
func GitHubRepositoryFromLookup(lookup Lookup) GitHubRepository {
	return GitHubRepository{
		Owner: lookup.Get(RepoOwnerVariable, DefaultRepoOwner),
		Name:  lookup.Get(RepoVariable, DefaultRepo),
	}
}
