package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Creates the access-control tables for the current environment and
// optionally grants a principal admin rights on a workspace.
//
// Usage:
//
//	go run scripts/setup_access_tables.go
//	go run scripts/setup_access_tables.go <principal> <workspace>
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		switch env {
		case "prod":
			prefix = "prod_"
		case "test":
			prefix = "test_"
		default:
			prefix = "dev_"
		}
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	workspaces := prefix + "workspaces"
	admins := prefix + "workspace_admins"

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL UNIQUE
		)`, workspaces),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			principal    TEXT NOT NULL,
			workspace_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			adminable    BOOLEAN NOT NULL DEFAULT TRUE,
			PRIMARY KEY (principal, workspace_id)
		)`, admins, workspaces),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %sworkspace_admins_principal_idx ON %s (principal)`, prefix, admins),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to execute statement: %v", err)
		}
	}
	fmt.Printf("Tables %s and %s are ready\n", workspaces, admins)

	if len(os.Args) != 3 {
		return
	}
	principal, workspace := os.Args[1], os.Args[2]

	if _, err := db.Exec(
		fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, workspaces),
		workspace,
	); err != nil {
		log.Fatalf("Failed to create workspace %q: %v", workspace, err)
	}

	if _, err := db.Exec(
		fmt.Sprintf(`INSERT INTO %s (principal, workspace_id, adminable)
			SELECT $1, id, TRUE FROM %s WHERE name = $2
			ON CONFLICT (principal, workspace_id) DO UPDATE SET adminable = TRUE`, admins, workspaces),
		principal, workspace,
	); err != nil {
		log.Fatalf("Failed to grant admin rights: %v", err)
	}
	fmt.Printf("Granted %s admin rights on workspace %s\n", principal, workspace)
}
