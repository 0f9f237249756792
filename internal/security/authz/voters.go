package authz

import (
	"context"
	"net/http"

	"atlas/internal/security/authn"
	"atlas/internal/security/rules"
)

// Authentication-level attribute values recognized by the authenticated
// voter. Each grants the levels at or above it: a fully authenticated
// caller satisfies all three, a remembered session satisfies the lower two,
// an anonymous caller only the last.
const (
	AttrAuthenticatedFully       = "IS_AUTHENTICATED_FULLY"
	AttrAuthenticatedRemembered  = "IS_AUTHENTICATED_REMEMBERED"
	AttrAuthenticatedAnonymously = "IS_AUTHENTICATED_ANONYMOUSLY"
)

// Trust-level resolution for the authenticated voter. Unlike
// authn.FullyAuthenticated, a missing principal counts as anonymous here
// rather than unauthenticated.
func isAnonymous(p authn.Principal) bool  { return p == nil || p.IsAnonymous() }
func isRememberMe(p authn.Principal) bool { return p != nil && p.IsRememberMe() }
func isFullyTrusted(p authn.Principal) bool {
	return !isAnonymous(p) && !isRememberMe(p)
}

// AuthenticatedVoter votes on the request's authentication-level
// requirements. It grants if the principal's trust level satisfies an
// applicable attribute, denies if an attribute of this family is present
// but unsatisfied, and abstains when no such attribute matches the request.
type AuthenticatedVoter struct {
	metadata MetadataSource
}

func (v *AuthenticatedVoter) supports(attr Attribute) bool {
	switch attr.Attribute() {
	case AttrAuthenticatedFully, AttrAuthenticatedRemembered, AttrAuthenticatedAnonymously:
		return true
	}
	return false
}

func (v *AuthenticatedVoter) Vote(ctx context.Context, p authn.Principal, r *http.Request) Decision {
	result := Abstained
	for _, attr := range v.metadata.Attributes(r) {
		if !v.supports(attr) {
			continue
		}
		result = Denied
		switch attr.Attribute() {
		case AttrAuthenticatedFully:
			if isFullyTrusted(p) {
				return Granted
			}
		case AttrAuthenticatedRemembered:
			if isRememberMe(p) || isFullyTrusted(p) {
				return Granted
			}
		case AttrAuthenticatedAnonymously:
			if isAnonymous(p) || isFullyTrusted(p) || isRememberMe(p) {
				return Granted
			}
		}
	}
	return result
}

// WorkspaceAdminVoter grants when a workspace-admin access rule matches the
// request and the principal holds the corresponding admin rights: for rules
// binding a {workspace} variable the named workspace must be adminable by
// the principal, for unscoped rules being an admin of any workspace
// suffices. It otherwise abstains: absence of workspace-admin rights must
// not block the other voters. A principal that is not fully authenticated
// is denied outright.
type WorkspaceAdminVoter struct {
	metadata   MetadataSource
	authorizer *WorkspaceAdminAuthorizer
}

func (v *WorkspaceAdminVoter) Vote(ctx context.Context, p authn.Principal, r *http.Request) Decision {
	if !authn.FullyAuthenticated(p) {
		return Denied
	}
	uri := r.URL.Path
	method := r.Method
	for _, attr := range v.metadata.Attributes(r) {
		ra, ok := attr.(ruleAttribute)
		if !ok || !ra.rule.Matches(uri, method) {
			continue
		}
		if workspace, scoped := rules.ExtractVariable(ra.rule.Pattern(), uri, workspaceVariable); scoped {
			limits, found := v.authorizer.WorkspaceAccessLimits(ctx, p, workspace)
			if found && limits.Adminable {
				return Granted
			}
			continue
		}
		if v.authorizer.IsWorkspaceAdmin(ctx, p) {
			return Granted
		}
	}
	return Abstained
}

// workspaceVariable is the template variable naming the workspace in
// workspace-scoped rule patterns.
const workspaceVariable = "workspace"

// RoleVoter grants if the principal holds a granted authority matching any
// attribute value on the request. If attributes are present and none of the
// principal's authorities match, it denies; with no attributes at all it
// abstains. A missing principal is denied, not abstained.
type RoleVoter struct {
	metadata MetadataSource
}

func (v *RoleVoter) Vote(ctx context.Context, p authn.Principal, r *http.Request) Decision {
	if p == nil {
		return Denied
	}
	result := Abstained
	authorities := p.Authorities()
	for _, attr := range v.metadata.Attributes(r) {
		value := attr.Attribute()
		if value == "" {
			continue
		}
		result = Denied
		for _, authority := range authorities {
			if value == authority {
				return Granted
			}
		}
	}
	return result
}
