package authz

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"atlas/internal/security/authn"
	"atlas/internal/security/rules"
)

type fakeCatalog struct {
	workspaces map[string]*Workspace
	err        error
}

func (c *fakeCatalog) WorkspaceByName(ctx context.Context, name string) (*Workspace, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.workspaces[name], nil
}

type fakeAccessManager struct {
	admin     bool
	adminErr  error
	adminable map[string]bool
	limitsErr error

	adminCalls  int
	limitsCalls int
}

func (m *fakeAccessManager) IsWorkspaceAdmin(ctx context.Context, p authn.Principal) (bool, error) {
	m.adminCalls++
	if m.adminErr != nil {
		return false, m.adminErr
	}
	return m.admin, nil
}

func (m *fakeAccessManager) AccessLimits(ctx context.Context, p authn.Principal, ws *Workspace) (*WorkspaceAccessLimits, error) {
	m.limitsCalls++
	if m.limitsErr != nil {
		return nil, m.limitsErr
	}
	return &WorkspaceAccessLimits{Adminable: m.adminable[ws.Name]}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthorizer(t *testing.T, catalog *fakeCatalog, manager *fakeAccessManager) *WorkspaceAdminAuthorizer {
	t.Helper()
	store, err := rules.NewStore(nil)
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	return NewWorkspaceAdminAuthorizer(store, catalog, manager, discardLogger())
}

func TestIsWorkspaceAdminMemoizedPerRequest(t *testing.T) {
	manager := &fakeAccessManager{admin: true}
	authorizer := newTestAuthorizer(t, &fakeCatalog{}, manager)
	p := &authn.User{Subject: "bob"}

	ctx := WithRequestCache(context.Background())
	for i := 0; i < 3; i++ {
		if !authorizer.IsWorkspaceAdmin(ctx, p) {
			t.Fatalf("IsWorkspaceAdmin() call %d = false, want true", i+1)
		}
	}
	if manager.adminCalls != 1 {
		t.Errorf("access manager queried %d times within one request, want 1", manager.adminCalls)
	}

	// a new request context starts with an empty cache
	if !authorizer.IsWorkspaceAdmin(WithRequestCache(context.Background()), p) {
		t.Fatal("IsWorkspaceAdmin() on a fresh request = false, want true")
	}
	if manager.adminCalls != 2 {
		t.Errorf("access manager queried %d times across two requests, want 2", manager.adminCalls)
	}
}

func TestIsWorkspaceAdminWithoutRequestCache(t *testing.T) {
	// no middleware installed the cache: every check queries, none fails
	manager := &fakeAccessManager{admin: true}
	authorizer := newTestAuthorizer(t, &fakeCatalog{}, manager)
	p := &authn.User{Subject: "bob"}

	ctx := context.Background()
	authorizer.IsWorkspaceAdmin(ctx, p)
	authorizer.IsWorkspaceAdmin(ctx, p)
	if manager.adminCalls != 2 {
		t.Errorf("access manager queried %d times without a cache, want 2", manager.adminCalls)
	}
}

func TestIsWorkspaceAdminRequiresFullAuthentication(t *testing.T) {
	manager := &fakeAccessManager{admin: true}
	authorizer := newTestAuthorizer(t, &fakeCatalog{}, manager)
	ctx := WithRequestCache(context.Background())

	if authorizer.IsWorkspaceAdmin(ctx, authn.Anonymous()) {
		t.Error("IsWorkspaceAdmin(anonymous) = true, want false")
	}
	if authorizer.IsWorkspaceAdmin(ctx, nil) {
		t.Error("IsWorkspaceAdmin(nil) = true, want false")
	}
	if manager.adminCalls != 0 {
		t.Errorf("access manager queried %d times for unauthenticated callers, want 0", manager.adminCalls)
	}
}

func TestIsWorkspaceAdminLookupErrorNotCached(t *testing.T) {
	manager := &fakeAccessManager{adminErr: errors.New("connection refused")}
	authorizer := newTestAuthorizer(t, &fakeCatalog{}, manager)
	p := &authn.User{Subject: "bob"}
	ctx := WithRequestCache(context.Background())

	if authorizer.IsWorkspaceAdmin(ctx, p) {
		t.Fatal("IsWorkspaceAdmin() = true on lookup error, want false")
	}

	// the provider recovers within the same request: the failed result must
	// not have been memoized
	manager.adminErr = nil
	manager.admin = true
	if !authorizer.IsWorkspaceAdmin(ctx, p) {
		t.Fatal("IsWorkspaceAdmin() = false after recovery, want true")
	}
	if manager.adminCalls != 2 {
		t.Errorf("access manager queried %d times, want 2", manager.adminCalls)
	}
}

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name           string
		principal      authn.Principal
		uri            string
		method         string
		admin          bool
		want           bool
		wantAdminCalls int
	}{
		{
			name:           "full administrator bypasses rule matching",
			principal:      &authn.User{Subject: "root", Roles: []string{authn.AdminRole}},
			uri:            "/anything/at/all",
			method:         "DELETE",
			want:           true,
			wantAdminCalls: 0,
		},
		{
			name:           "workspace admin on a covered path",
			principal:      &authn.User{Subject: "bob"},
			uri:            "/rest/workspaces/acme/datastores",
			method:         "PUT",
			admin:          true,
			want:           true,
			wantAdminCalls: 1,
		},
		{
			name:           "workspace admin on an uncovered path",
			principal:      &authn.User{Subject: "bob"},
			uri:            "/api/other",
			method:         "GET",
			admin:          true,
			want:           false,
			wantAdminCalls: 0,
		},
		{
			name:           "covered path without admin status",
			principal:      &authn.User{Subject: "bob"},
			uri:            "/rest/workspaces/acme/datastores",
			method:         "PUT",
			admin:          false,
			want:           false,
			wantAdminCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := &fakeAccessManager{admin: tt.admin}
			authorizer := newTestAuthorizer(t, &fakeCatalog{}, manager)
			ctx := WithRequestCache(context.Background())

			if got := authorizer.CanAccess(ctx, tt.principal, tt.uri, tt.method); got != tt.want {
				t.Errorf("CanAccess(%q, %q) = %v, want %v", tt.uri, tt.method, got, tt.want)
			}
			if manager.adminCalls != tt.wantAdminCalls {
				t.Errorf("access manager queried %d times, want %d", manager.adminCalls, tt.wantAdminCalls)
			}
		})
	}
}

func TestWorkspaceAccessLimits(t *testing.T) {
	catalog := &fakeCatalog{workspaces: map[string]*Workspace{
		"acme":  {ID: "ws-1", Name: "acme"},
		"other": {ID: "ws-2", Name: "other"},
	}}
	p := &authn.User{Subject: "bob"}
	ctx := context.Background()

	t.Run("adminable workspace", func(t *testing.T) {
		manager := &fakeAccessManager{adminable: map[string]bool{"acme": true}}
		authorizer := newTestAuthorizer(t, catalog, manager)

		limits, ok := authorizer.WorkspaceAccessLimits(ctx, p, "acme")
		if !ok || !limits.Adminable {
			t.Errorf("WorkspaceAccessLimits(acme) = %+v, %v, want Adminable=true", limits, ok)
		}
	})

	t.Run("workspace the principal does not administer", func(t *testing.T) {
		manager := &fakeAccessManager{adminable: map[string]bool{"acme": true}}
		authorizer := newTestAuthorizer(t, catalog, manager)

		limits, ok := authorizer.WorkspaceAccessLimits(ctx, p, "other")
		if !ok || limits.Adminable {
			t.Errorf("WorkspaceAccessLimits(other) = %+v, %v, want Adminable=false", limits, ok)
		}
	})

	t.Run("unknown workspace yields no limits", func(t *testing.T) {
		manager := &fakeAccessManager{adminable: map[string]bool{"acme": true}}
		authorizer := newTestAuthorizer(t, catalog, manager)

		if _, ok := authorizer.WorkspaceAccessLimits(ctx, p, "ghost"); ok {
			t.Error("WorkspaceAccessLimits(ghost) ok = true, want false")
		}
		if manager.limitsCalls != 0 {
			t.Errorf("access manager queried %d times for unknown workspace, want 0", manager.limitsCalls)
		}
	})

	t.Run("catalog error yields no limits", func(t *testing.T) {
		authorizer := newTestAuthorizer(t,
			&fakeCatalog{err: errors.New("connection refused")},
			&fakeAccessManager{adminable: map[string]bool{"acme": true}},
		)

		if _, ok := authorizer.WorkspaceAccessLimits(ctx, p, "acme"); ok {
			t.Error("WorkspaceAccessLimits() ok = true on catalog error, want false")
		}
	})

	t.Run("access manager error yields no limits", func(t *testing.T) {
		authorizer := newTestAuthorizer(t, catalog,
			&fakeAccessManager{limitsErr: errors.New("connection refused")},
		)

		if _, ok := authorizer.WorkspaceAccessLimits(ctx, p, "acme"); ok {
			t.Error("WorkspaceAccessLimits() ok = true on manager error, want false")
		}
	})
}
