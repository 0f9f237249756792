package authn

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestClaimsPrincipal(t *testing.T) {
	tests := []struct {
		name           string
		claims         Claims
		wantAnonymous  bool
		wantName       string
		wantRememberMe bool
	}{
		{
			name: "standard authenticated token",
			claims: Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"},
				Role:             "authenticated",
				Roles:            []string{"ROLE_EDITOR"},
			},
			wantName: "bob",
		},
		{
			name: "anonymous flag maps to the guest principal",
			claims: Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"},
				IsAnonymous:      true,
			},
			wantAnonymous: true,
		},
		{
			name: "anon role maps to the guest principal",
			claims: Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"},
				Role:             "anon",
			},
			wantAnonymous: true,
		},
		{
			name: "remember_me authentication method",
			claims: Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"},
				AMR:              []string{"pwd", "remember_me"},
			},
			wantName:       "bob",
			wantRememberMe: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.claims.Principal()

			if p.IsAnonymous() != tt.wantAnonymous {
				t.Errorf("IsAnonymous() = %v, want %v", p.IsAnonymous(), tt.wantAnonymous)
			}
			if tt.wantAnonymous {
				return
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
			if p.IsRememberMe() != tt.wantRememberMe {
				t.Errorf("IsRememberMe() = %v, want %v", p.IsRememberMe(), tt.wantRememberMe)
			}
		})
	}
}

func TestFullyAuthenticated(t *testing.T) {
	if FullyAuthenticated(nil) {
		t.Error("FullyAuthenticated(nil) = true, want false")
	}
	if FullyAuthenticated(Anonymous()) {
		t.Error("FullyAuthenticated(anonymous) = true, want false")
	}
	if !FullyAuthenticated(&User{Subject: "bob"}) {
		t.Error("FullyAuthenticated(user) = false, want true")
	}
	// a remembered session is still fully authenticated for this check;
	// the trust-level distinction lives in the authenticated voter
	if !FullyAuthenticated(&User{Subject: "bob", RememberMe: true}) {
		t.Error("FullyAuthenticated(remembered user) = false, want true")
	}
}

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(&User{Subject: "root", Roles: []string{AdminRole}}) {
		t.Error("IsAdmin() = false for a role holder, want true")
	}
	if IsAdmin(&User{Subject: "bob", Roles: []string{"ROLE_EDITOR"}}) {
		t.Error("IsAdmin() = true without the admin role, want false")
	}
	if IsAdmin(nil) {
		t.Error("IsAdmin(nil) = true, want false")
	}
	if IsAdmin(Anonymous()) {
		t.Error("IsAdmin(anonymous) = true, want false")
	}
}
