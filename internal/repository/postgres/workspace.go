package postgres

import (
	"context"
	"errors"
	"fmt"

	"atlas/internal/security/authz"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkspaceRepository implements the authz.WorkspaceCatalog interface
type WorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(config *RepositoryConfig) *WorkspaceRepository {
	return &WorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// WorkspaceByName looks up a workspace by its name. An unknown workspace
// returns (nil, nil): absence is not an error for the authorization engine.
func (r *WorkspaceRepository) WorkspaceByName(ctx context.Context, name string) (*authz.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, name
		FROM %s
		WHERE name = $1
	`, r.tables.Workspaces)

	var ws authz.Workspace
	err := r.pool.QueryRow(ctx, query, name).Scan(&ws.ID, &ws.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace %q: %w", name, err)
	}
	return &ws, nil
}
