package postgres

import (
	"context"
	"fmt"

	"atlas/internal/security/authn"
	"atlas/internal/security/authz"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AccessRepository implements the authz.AccessManager interface on top of a
// workspace_admins membership table: one row per (principal, workspace)
// with an adminable flag.
type AccessRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAccessRepository creates a new access repository
func NewAccessRepository(config *RepositoryConfig) *AccessRepository {
	return &AccessRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// IsWorkspaceAdmin reports whether the principal administers at least one
// workspace.
func (r *AccessRepository) IsWorkspaceAdmin(ctx context.Context, p authn.Principal) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s
			WHERE principal = $1 AND adminable
		)
	`, r.tables.WorkspaceAdmins)

	var admin bool
	if err := r.pool.QueryRow(ctx, query, p.Name()).Scan(&admin); err != nil {
		return false, fmt.Errorf("check workspace admin for %q: %w", p.Name(), err)
	}
	return admin, nil
}

// AccessLimits returns the principal's access limits for the workspace. A
// principal with no membership row gets non-adminable limits.
func (r *AccessRepository) AccessLimits(ctx context.Context, p authn.Principal, ws *authz.Workspace) (*authz.WorkspaceAccessLimits, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s
			WHERE principal = $1 AND workspace_id = $2 AND adminable
		)
	`, r.tables.WorkspaceAdmins)

	var adminable bool
	if err := r.pool.QueryRow(ctx, query, p.Name(), ws.ID).Scan(&adminable); err != nil {
		return nil, fmt.Errorf("get access limits for %q on %q: %w", p.Name(), ws.Name, err)
	}
	return &authz.WorkspaceAccessLimits{Adminable: adminable}, nil
}
