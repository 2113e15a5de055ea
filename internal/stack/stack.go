/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"fmt"

	"github.com/awslabs/goformation/v7/cloudformation"
)

// Construct is a node in a stack's construct tree
type Construct interface {
	// ID returns the construct id, unique within its stack
	ID() string
	// synthesize adds the construct's resources and outputs to the template
	synthesize(stack *Stack, template *cloudformation.Template) error
}

// Environment pins a stack to an account and region. Empty fields leave the
// choice to the deployment context.
type Environment struct {
	Account string
	Region  string
}

// Props configures a bare stack
type Props struct {
	Description string
	Tags        map[string]string
	Env         Environment
}

// Stack is a deployable unit of resource declarations
type Stack struct {
	id          string
	description string
	tags        map[string]string
	env         Environment

	children []Construct
	childIDs map[string]struct{}
}

// NewStack creates an empty stack and registers it with the app
func NewStack(app *App, id string, props Props) (*Stack, error) {
	s := newStack(id, props)
	if err := app.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// newStack creates a stack that no app knows about yet. Callers add children
// first and register last, so a failed construction leaves the app untouched.
func newStack(id string, props Props) *Stack {
	return &Stack{
		id:          id,
		description: props.Description,
		tags:        copyTags(props.Tags),
		env:         props.Env,
		childIDs:    make(map[string]struct{}),
	}
}

// ID returns the stack id
func (s *Stack) ID() string {
	return s.id
}

// Description returns the template description
func (s *Stack) Description() string {
	return s.description
}

// Tags returns a copy of the stack-level tags
func (s *Stack) Tags() map[string]string {
	return copyTags(s.tags)
}

// Env returns the environment the stack is pinned to
func (s *Stack) Env() Environment {
	return s.env
}

// Children returns the constructs in declaration order
func (s *Stack) Children() []Construct {
	return s.children
}

// addChild registers a construct, enforcing unique ids within the stack
func (s *Stack) addChild(c Construct) error {
	id := c.ID()
	if err := validateID(id); err != nil {
		return fmt.Errorf("stack %s: %w", s.id, err)
	}
	if _, exists := s.childIDs[id]; exists {
		return fmt.Errorf("%w: %q already exists in stack %s", ErrDuplicateID, id, s.id)
	}
	s.childIDs[id] = struct{}{}
	s.children = append(s.children, c)
	return nil
}

// Synthesize renders the construct tree into a CloudFormation template
func (s *Stack) Synthesize() (*cloudformation.Template, error) {
	template := cloudformation.NewTemplate()
	template.Description = s.description
	for _, child := range s.children {
		if err := child.synthesize(s, template); err != nil {
			return nil, fmt.Errorf("failed to synthesize %s/%s: %w", s.id, child.ID(), err)
		}
	}
	return template, nil
}

// TemplateBody synthesizes the stack and renders it in the given format
func (s *Stack) TemplateBody(format string) (string, error) {
	template, err := s.Synthesize()
	if err != nil {
		return "", err
	}

	var body []byte
	switch format {
	case "", "json":
		body, err = template.JSON()
	case "yaml", "yml":
		body, err = template.YAML()
	default:
		return "", fmt.Errorf("unsupported template format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render stack %s: %w", s.id, err)
	}
	return string(body), nil
}

// account returns the literal account or the AccountId pseudo parameter
func (s *Stack) account() string {
	if s.env.Account != "" {
		return s.env.Account
	}
	return "${AWS::AccountId}"
}

// region returns the literal region or the Region pseudo parameter
func (s *Stack) region() string {
	if s.env.Region != "" {
		return s.env.Region
	}
	return "${AWS::Region}"
}

// arn formats an ARN for a service resource owned by this stack's account
func (s *Stack) arn(service, resource string) string {
	return cloudformation.Sub(fmt.Sprintf("arn:${AWS::Partition}:%s:%s:%s:%s", service, s.region(), s.account(), resource))
}

func addResource(t *cloudformation.Template, logicalID string, resource cloudformation.Resource) error {
	if _, exists := t.Resources[logicalID]; exists {
		return fmt.Errorf("resource %s already exists in template", logicalID)
	}
	t.Resources[logicalID] = resource
	return nil
}

func addOutput(t *cloudformation.Template, name string, output cloudformation.Output) error {
	if _, exists := t.Outputs[name]; exists {
		return fmt.Errorf("output %s already exists in template", name)
	}
	t.Outputs[name] = output
	return nil
}

func copyTags(tags map[string]string) map[string]string {
	if tags == nil {
		return nil
	}
	result := make(map[string]string, len(tags))
	for k, v := range tags {
		result[k] = v
	}
	return result
}
