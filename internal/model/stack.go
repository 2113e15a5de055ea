/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

// Context is the deployment target a stack is bound to
type Context struct {
	Name    string
	Account string
	Region  string
}

// Stack is a synthesized build stack ready for deployment
type Stack struct {
	Name         string
	Context      *Context
	TemplateBody string
	Tags         map[string]string
	Capabilities []string
	Image        *ImageReference
}

// ImageReference names the container image a build stack runs in. An empty
// RegistryID means the account of the caller.
type ImageReference struct {
	RegistryID string
	Repository string
	Tag        string
}

// String returns the image as repository:tag
func (i *ImageReference) String() string {
	return i.Repository + ":" + i.Tag
}

// GetTemplateContent returns the synthesized template for this stack
func (s *Stack) GetTemplateContent() (string, error) {
	return s.TemplateBody, nil
}

// Region returns the context region, or an empty string when unbound
func (s *Stack) Region() string {
	if s.Context == nil {
		return ""
	}
	return s.Context.Region
}
