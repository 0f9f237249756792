package resource

import (
	"context"
	"strings"

	"atlas/internal/security/authn"
	"atlas/internal/security/authz"
	"atlas/internal/security/rules"
)

// Paths a workspace administrator can see, expressed as ant-style templates:
//
//   - ""                           the root folder, read-only
//   - "workspaces"                 the workspaces folder, read-only
//   - "workspaces/{workspace}"     read-write, limited to adminable workspaces
//   - "workspaces/{workspace}/**"  read-write, limited to adminable workspaces
//
// Everything else is closed by default.
var (
	collectionPatterns = []string{"", "workspaces"}
	workspacePatterns  = []string{"workspaces/{workspace}", "workspaces/{workspace}/**"}
)

// WorkspaceAuthorizer is the slice of the authorization engine the filter
// consumes: per-workspace admin limits and the global "admin of some
// workspace" check.
type WorkspaceAuthorizer interface {
	IsWorkspaceAdmin(ctx context.Context, p authn.Principal) bool
	WorkspaceAccessLimits(ctx context.Context, p authn.Principal, workspace string) (*authz.WorkspaceAccessLimits, bool)
}

// AccessFilter maps a resource path to the access level of a principal,
// based on the authorizer's knowledge of which workspaces the principal
// administers.
type AccessFilter struct {
	authorizer WorkspaceAuthorizer
}

// NewAccessFilter creates a filter over the given authorizer.
func NewAccessFilter(authorizer WorkspaceAuthorizer) *AccessFilter {
	return &AccessFilter{authorizer: authorizer}
}

// AccessLimits determines the access level for the principal on the
// resource denoted by path.
func (f *AccessFilter) AccessLimits(ctx context.Context, p authn.Principal, path string) Access {
	if workspace, ok := extractWorkspace(path); ok {
		return f.workspaceAccess(ctx, p, workspace)
	}
	return f.collectionAccess(ctx, p, path)
}

// workspaceAccess grants WRITE on paths inside a workspace the principal
// administers, and NONE otherwise. Workspace admins never get a degraded
// READ inside their own workspace, and non-admins of that workspace never
// get READ.
func (f *AccessFilter) workspaceAccess(ctx context.Context, p authn.Principal, workspace string) Access {
	limits, ok := f.authorizer.WorkspaceAccessLimits(ctx, p, workspace)
	if ok && limits.Adminable {
		return AccessWrite
	}
	return AccessNone
}

// collectionAccess grants READ on the collection roots to any workspace
// admin, NONE elsewhere.
func (f *AccessFilter) collectionAccess(ctx context.Context, p authn.Principal, path string) Access {
	if isCollectionPath(path) && f.authorizer.IsWorkspaceAdmin(ctx, p) {
		return AccessRead
	}
	return AccessNone
}

func stripTrailingSlash(path string) string {
	return strings.TrimSuffix(path, "/")
}

// extractWorkspace returns the workspace name bound by the first workspace
// template matching the path. Templates are tried in a fixed order; a path
// matches at most one in practice.
func extractWorkspace(path string) (string, bool) {
	normalized := stripTrailingSlash(path)
	for _, pattern := range workspacePatterns {
		if workspace, ok := rules.ExtractVariable(pattern, normalized, "workspace"); ok {
			return workspace, true
		}
	}
	return "", false
}

func isCollectionPath(path string) bool {
	normalized := stripTrailingSlash(path)
	for _, pattern := range collectionPatterns {
		if rules.Match(pattern, normalized) {
			return true
		}
	}
	return false
}
