package authz

import (
	"net/http"

	"atlas/internal/security/rules"
)

// Attribute is a configuration attribute attached to a request by a
// metadata source: a required role, an authentication-level requirement, or
// a matched workspace-admin access rule.
type Attribute interface {
	Attribute() string
}

// StringAttribute is a plain attribute value such as a role name or one of
// the IS_AUTHENTICATED_* markers.
type StringAttribute string

func (s StringAttribute) Attribute() string { return string(s) }

// MetadataSource yields the configuration attributes governing a request.
type MetadataSource interface {
	Attributes(r *http.Request) []Attribute
}

// ruleAttribute adapts a workspace-admin access rule to the Attribute
// interface while keeping the rule recoverable for the workspace-admin voter.
type ruleAttribute struct {
	rule *rules.AccessRule
}

func (a ruleAttribute) Attribute() string { return a.rule.Attribute() }

// WorkspaceRuleSource surfaces the first workspace-admin rule matching the
// request, preserving rule order. No matching rule means no attributes: the
// request is not workspace-admin eligible.
type WorkspaceRuleSource struct {
	authorizer *WorkspaceAdminAuthorizer
}

// NewWorkspaceRuleSource creates a metadata source over the authorizer's
// rule store.
func NewWorkspaceRuleSource(authorizer *WorkspaceAdminAuthorizer) *WorkspaceRuleSource {
	return &WorkspaceRuleSource{authorizer: authorizer}
}

func (s *WorkspaceRuleSource) Attributes(r *http.Request) []Attribute {
	rule, ok := s.authorizer.FindMatchingRule(r.URL.Path, r.Method)
	if !ok {
		return nil
	}
	return []Attribute{ruleAttribute{rule: rule}}
}

// CompositeSource concatenates the attributes of several metadata sources.
type CompositeSource struct {
	sources []MetadataSource
}

// NewCompositeSource creates a source combining the given delegates in order.
func NewCompositeSource(sources ...MetadataSource) *CompositeSource {
	return &CompositeSource{sources: sources}
}

func (s *CompositeSource) Attributes(r *http.Request) []Attribute {
	if len(s.sources) == 1 {
		return s.sources[0].Attributes(r)
	}
	var attrs []Attribute
	for _, src := range s.sources {
		attrs = append(attrs, src.Attributes(r)...)
	}
	return attrs
}
