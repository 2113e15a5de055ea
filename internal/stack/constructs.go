/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/codebuild"
	"github.com/awslabs/goformation/v7/cloudformation/iam"
	"github.com/orien/cistack/internal/cfn"
	"github.com/orien/cistack/internal/env"
)

// EventAction is a webhook event that can start a build
type EventAction string

const (
	EventActionPullRequestCreated  EventAction = "PULL_REQUEST_CREATED"
	EventActionPullRequestUpdated  EventAction = "PULL_REQUEST_UPDATED"
	EventActionPullRequestReopened EventAction = "PULL_REQUEST_REOPENED"
)

// PullRequestEvents are the events a pull request build fires on
var PullRequestEvents = []EventAction{
	EventActionPullRequestCreated,
	EventActionPullRequestUpdated,
	EventActionPullRequestReopened,
}

// ComputeType is the size of the build host
type ComputeType string

const ComputeTypeLarge ComputeType = "BUILD_GENERAL1_LARGE"

// ImageVariant selects the operating system of the build image
type ImageVariant int

const (
	ImageVariantLinux ImageVariant = iota
	ImageVariantWindows
)

// String returns the variant name
func (v ImageVariant) String() string {
	switch v {
	case ImageVariantWindows:
		return "windows"
	default:
		return "linux"
	}
}

// EnvironmentType returns the CodeBuild environment type for the variant
func (v ImageVariant) EnvironmentType() string {
	switch v {
	case ImageVariantWindows:
		return "WINDOWS_CONTAINER"
	default:
		return "LINUX_CONTAINER"
	}
}

// ImportedRepository references an ECR repository that already exists.
// It declares no resources; a missing repository surfaces at deploy time.
type ImportedRepository struct {
	id   string
	Name string
}

func (r *ImportedRepository) ID() string { return r.id }

func (r *ImportedRepository) synthesize(*Stack, *cloudformation.Template) error { return nil }

// repositoryConstructID turns a possibly namespaced repository name into a
// construct id. Valid repository names never contain "--", so the mapping is
// collision free.
func repositoryConstructID(name string) string {
	return strings.ReplaceAll(name, "/", "--")
}

// arn returns the repository ARN in the owning stack's account and region
func (r *ImportedRepository) arn(s *Stack) string {
	return s.arn("ecr", "repository/"+r.Name)
}

// URIForTag returns the image URI for a tag in this repository
func (r *ImportedRepository) URIForTag(s *Stack, tag string) string {
	return cloudformation.Sub(fmt.Sprintf("%s.dkr.ecr.%s.${AWS::URLSuffix}/%s:%s", s.account(), s.region(), r.Name, tag))
}

// BuildImage points at the container image a build runs in
type BuildImage struct {
	Repository *ImportedRepository
	Tag        string
	Variant    ImageVariant
}

// SourceTrigger binds a build project to GitHub repository events
type SourceTrigger struct {
	Repository        env.GitHubRepository
	Webhook           bool
	Events            []EventAction
	CloneDepth        int
	ReportBuildStatus bool
}

// FilterPattern returns the EVENT filter pattern CodeBuild expects
func (t *SourceTrigger) FilterPattern() string {
	events := make([]string, len(t.Events))
	for i, e := range t.Events {
		events[i] = string(e)
	}
	return strings.Join(events, ", ")
}

// PolicyStatement is a single IAM policy statement
type PolicyStatement struct {
	Effect    string
	Actions   []string
	Resources []string
}

func (p PolicyStatement) render() map[string]interface{} {
	var action interface{} = p.Actions
	if len(p.Actions) == 1 {
		action = p.Actions[0]
	}
	var resource interface{} = p.Resources
	if len(p.Resources) == 1 {
		resource = p.Resources[0]
	}
	return map[string]interface{}{
		"Action":   action,
		"Effect":   p.Effect,
		"Resource": resource,
	}
}

// ExecutionRole is the identity a build assumes
type ExecutionRole struct {
	id               string
	ServicePrincipal string
	ManagedPolicies  []string
	statements       []PolicyStatement
}

func (r *ExecutionRole) ID() string { return r.id }

// AddToPolicy grants the role an inline permission
func (r *ExecutionRole) AddToPolicy(statement PolicyStatement) {
	r.statements = append(r.statements, statement)
}

// Statements returns the inline permissions granted to the role
func (r *ExecutionRole) Statements() []PolicyStatement {
	return r.statements
}

func (r *ExecutionRole) logicalID() string {
	return cfn.LogicalID(r.id, "Resource")
}

func (r *ExecutionRole) policyLogicalID() string {
	return cfn.LogicalID(r.id, "DefaultPolicy", "Resource")
}

func (r *ExecutionRole) synthesize(s *Stack, t *cloudformation.Template) error {
	managedPolicyArns := make([]string, len(r.ManagedPolicies))
	for i, name := range r.ManagedPolicies {
		managedPolicyArns[i] = cloudformation.Join("", []string{
			"arn:", cloudformation.Ref("AWS::Partition"), ":iam::aws:policy/" + name,
		})
	}

	err := addResource(t, r.logicalID(), &iam.Role{
		AssumeRolePolicyDocument: map[string]interface{}{
			"Version": "2012-10-17",
			"Statement": []interface{}{
				map[string]interface{}{
					"Action":    "sts:AssumeRole",
					"Effect":    "Allow",
					"Principal": map[string]interface{}{"Service": r.ServicePrincipal},
				},
			},
		},
		ManagedPolicyArns: managedPolicyArns,
	})
	if err != nil {
		return err
	}

	if len(r.statements) == 0 {
		return nil
	}

	statements := make([]interface{}, len(r.statements))
	for i, st := range r.statements {
		statements[i] = st.render()
	}

	return addResource(t, r.policyLogicalID(), &iam.Policy{
		PolicyDocument: map[string]interface{}{
			"Version":   "2012-10-17",
			"Statement": statements,
		},
		PolicyName: r.policyLogicalID(),
		Roles:      []string{cloudformation.Ref(r.logicalID())},
	})
}

// BuildProject is the CodeBuild project definition
type BuildProject struct {
	id            string
	Name          string
	Source        *SourceTrigger
	Role          *ExecutionRole
	Image         *BuildImage
	ComputeType   ComputeType
	Privileged    bool
	BuildSpecFile string
}

func (p *BuildProject) ID() string { return p.id }

func (p *BuildProject) logicalID() string {
	return cfn.LogicalID(p.id, "Resource")
}

// grantDefaults adds the permissions every build needs to the project role
func (p *BuildProject) grantDefaults(s *Stack) {
	p.Role.AddToPolicy(PolicyStatement{
		Effect: "Allow",
		Actions: []string{
			"ecr:BatchCheckLayerAvailability",
			"ecr:GetDownloadUrlForLayer",
			"ecr:BatchGetImage",
		},
		Resources: []string{p.Image.Repository.arn(s)},
	})
	p.Role.AddToPolicy(PolicyStatement{
		Effect:    "Allow",
		Actions:   []string{"ecr:GetAuthorizationToken"},
		Resources: []string{"*"},
	})
	p.Role.AddToPolicy(PolicyStatement{
		Effect: "Allow",
		Actions: []string{
			"logs:CreateLogGroup",
			"logs:CreateLogStream",
			"logs:PutLogEvents",
		},
		Resources: []string{
			s.arn("logs", "log-group:/aws/codebuild/"+p.Name),
			s.arn("logs", "log-group:/aws/codebuild/"+p.Name+":*"),
		},
	})
	p.Role.AddToPolicy(PolicyStatement{
		Effect: "Allow",
		Actions: []string{
			"codebuild:CreateReportGroup",
			"codebuild:CreateReport",
			"codebuild:UpdateReport",
			"codebuild:BatchPutTestCases",
			"codebuild:BatchPutCodeCoverages",
		},
		Resources: []string{
			s.arn("codebuild", "report-group/"+p.Name+"-*"),
		},
	})
}

func (p *BuildProject) synthesize(s *Stack, t *cloudformation.Template) error {
	dependsOn := []string{p.Role.logicalID()}
	if len(p.Role.statements) > 0 {
		dependsOn = append(dependsOn, p.Role.policyLogicalID())
	}
	sort.Strings(dependsOn)

	project := &codebuild.Project{
		Name: cloudformation.String(p.Name),
		Artifacts: &codebuild.Project_Artifacts{
			Type: "NO_ARTIFACTS",
		},
		Environment: &codebuild.Project_Environment{
			Type:                     p.Image.Variant.EnvironmentType(),
			ComputeType:              string(p.ComputeType),
			Image:                    p.Image.Repository.URIForTag(s, p.Image.Tag),
			ImagePullCredentialsType: cloudformation.String("SERVICE_ROLE"),
			PrivilegedMode:           cloudformation.Bool(p.Privileged),
		},
		ServiceRole: cloudformation.GetAtt(p.Role.logicalID(), "Arn"),
		Source: &codebuild.Project_Source{
			Type:              "GITHUB",
			Location:          cloudformation.String(p.Source.Repository.CloneURL()),
			GitCloneDepth:     cloudformation.Int(p.Source.CloneDepth),
			ReportBuildStatus: cloudformation.Bool(p.Source.ReportBuildStatus),
			BuildSpec:         cloudformation.String(p.BuildSpecFile),
		},
		Triggers: &codebuild.Project_ProjectTriggers{
			Webhook: cloudformation.Bool(p.Source.Webhook),
		},
		EncryptionKey:              cloudformation.String("alias/aws/s3"),
		AWSCloudFormationDependsOn: dependsOn,
	}

	err := addResource(t, p.logicalID(), &webhookProject{
		Project: project,
		FilterGroups: [][]codebuild.Project_WebhookFilter{
			{{Type: "EVENT", Pattern: p.Source.FilterPattern()}},
		},
	})
	if err != nil {
		return err
	}

	outputs := []struct {
		name        string
		description string
		value       string
	}{
		{"ProjectName", "CodeBuild project name", cloudformation.Ref(p.logicalID())},
		{"ProjectArn", "CodeBuild project ARN", cloudformation.GetAtt(p.logicalID(), "Arn")},
		{"RoleArn", "Build execution role ARN", cloudformation.GetAtt(p.Role.logicalID(), "Arn")},
	}
	for _, o := range outputs {
		err := addOutput(t, o.name, cloudformation.Output{
			Value:       o.value,
			Description: cloudformation.String(o.description),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// webhookProject is a CodeBuild project carrying webhook filter groups.
// The generated Project_FilterGroup type has no fields, so the groups are
// spliced into the rendered Triggers instead.
type webhookProject struct {
	*codebuild.Project
	FilterGroups [][]codebuild.Project_WebhookFilter
}

func (p webhookProject) MarshalJSON() ([]byte, error) {
	data, err := p.Project.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var resource map[string]interface{}
	if err := json.Unmarshal(data, &resource); err != nil {
		return nil, err
	}
	properties, ok := resource["Properties"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("project %s rendered without properties", cloudformation.StringValue(p.Name))
	}
	triggers, ok := properties["Triggers"].(map[string]interface{})
	if !ok {
		triggers = make(map[string]interface{})
		properties["Triggers"] = triggers
	}
	triggers["FilterGroups"] = p.FilterGroups
	return json.Marshal(resource)
}
