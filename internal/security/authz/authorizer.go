// Package authz decides whether a caller may act on the management API.
// It combines priority-ordered URL access rules, a workspace-admin check
// against an external access-control provider, and a composite voting
// decision engine.
package authz

import (
	"context"
	"log/slog"

	"atlas/internal/security/authn"
	"atlas/internal/security/rules"
)

// Workspace is a named partition of the protected system.
type Workspace struct {
	ID   string
	Name string
}

// WorkspaceAccessLimits is the per-(principal, workspace) access result
// produced by the access manager. Only the Adminable flag is interpreted
// by this engine.
type WorkspaceAccessLimits struct {
	Adminable bool
}

// WorkspaceCatalog looks up workspaces by name. An unknown workspace yields
// (nil, nil), not an error.
type WorkspaceCatalog interface {
	WorkspaceByName(ctx context.Context, name string) (*Workspace, error)
}

// AccessManager is the external access-control provider. Its calls may
// perform I/O and are treated as blocking; callers own timeout policy
// through ctx.
type AccessManager interface {
	// IsWorkspaceAdmin reports whether the principal administers at least
	// one workspace.
	IsWorkspaceAdmin(ctx context.Context, p authn.Principal) (bool, error)

	// AccessLimits returns the principal's access limits for the workspace.
	AccessLimits(ctx context.Context, p authn.Principal, ws *Workspace) (*WorkspaceAccessLimits, error)
}

// WorkspaceAdminAuthorizer answers workspace-admin authorization questions,
// memoizing the admin-status lookup per request.
type WorkspaceAdminAuthorizer struct {
	rules   *rules.Store
	catalog WorkspaceCatalog
	manager AccessManager
	logger  *slog.Logger
}

// NewWorkspaceAdminAuthorizer creates an authorizer over the given rule
// store and collaborators.
func NewWorkspaceAdminAuthorizer(store *rules.Store, catalog WorkspaceCatalog, manager AccessManager, logger *slog.Logger) *WorkspaceAdminAuthorizer {
	return &WorkspaceAdminAuthorizer{
		rules:   store,
		catalog: catalog,
		manager: manager,
		logger:  logger,
	}
}

// CanAccess reports whether the principal may perform method on requestURI.
// Full administrators short-circuit without consulting rules; everyone else
// needs a matching rule and workspace-admin status.
func (a *WorkspaceAdminAuthorizer) CanAccess(ctx context.Context, p authn.Principal, requestURI, method string) bool {
	return authn.IsAdmin(p) || (a.matches(requestURI, method) && a.IsWorkspaceAdmin(ctx, p))
}

// IsWorkspaceAdmin reports whether the principal administers at least one
// workspace. The result is cached in the request scope so the access
// manager is queried at most once per request; a principal that is not
// fully authenticated is never a workspace admin and is not cached.
func (a *WorkspaceAdminAuthorizer) IsWorkspaceAdmin(ctx context.Context, p authn.Principal) bool {
	if !authn.FullyAuthenticated(p) {
		return false
	}
	cache := cacheFromContext(ctx)
	if admin, ok := cache.get(); ok {
		return admin
	}
	admin, err := a.manager.IsWorkspaceAdmin(ctx, p)
	if err != nil {
		// cannot determine admin status: treat as not admin, leave the
		// cache unset so a later check in the same request may succeed
		a.logger.Warn("workspace admin lookup failed",
			"principal", p.Name(),
			"error", err,
		)
		return false
	}
	cache.set(admin)
	return admin
}

// WorkspaceAccessLimits resolves the named workspace and returns the
// principal's access limits for it. An unknown workspace yields no limits,
// not an error.
func (a *WorkspaceAdminAuthorizer) WorkspaceAccessLimits(ctx context.Context, p authn.Principal, workspaceName string) (*WorkspaceAccessLimits, bool) {
	ws, err := a.catalog.WorkspaceByName(ctx, workspaceName)
	if err != nil {
		a.logger.Warn("workspace lookup failed",
			"workspace", workspaceName,
			"error", err,
		)
		return nil, false
	}
	if ws == nil {
		return nil, false
	}
	limits, err := a.manager.AccessLimits(ctx, p, ws)
	if err != nil {
		a.logger.Warn("access limits lookup failed",
			"workspace", workspaceName,
			"error", err,
		)
		return nil, false
	}
	if limits == nil {
		return nil, false
	}
	return limits, true
}

// FindMatchingRule returns the first rule matching the request in priority
// order. Exposed for reuse by the metadata source.
func (a *WorkspaceAdminAuthorizer) FindMatchingRule(requestURI, method string) (*rules.AccessRule, bool) {
	return a.rules.FirstMatch(requestURI, method)
}

// AccessRules returns the current rule snapshot.
func (a *WorkspaceAdminAuthorizer) AccessRules() []*rules.AccessRule {
	return a.rules.Rules()
}

func (a *WorkspaceAdminAuthorizer) matches(requestURI, method string) bool {
	_, ok := a.FindMatchingRule(requestURI, method)
	return ok
}
