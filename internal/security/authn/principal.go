package authn

// Principal is the authenticated (or anonymous) caller of a request.
// It is produced by the authentication layer and consumed by the
// authorization engine, which only cares about the caller's trust level
// and granted authorities.
type Principal interface {
	// Name returns the principal's identifier (JWT subject for
	// token-authenticated callers)
	Name() string

	// IsAuthenticated reports whether the principal was authenticated
	IsAuthenticated() bool

	// IsAnonymous reports whether the principal is the anonymous/guest caller
	IsAnonymous() bool

	// IsRememberMe reports whether the principal was authenticated through
	// a remembered session rather than fresh credentials
	IsRememberMe() bool

	// Authorities returns the roles granted to the principal
	Authorities() []string
}

// User is the standard Principal implementation for token-authenticated callers.
type User struct {
	Subject    string
	Roles      []string
	RememberMe bool
}

func (u *User) Name() string          { return u.Subject }
func (u *User) IsAuthenticated() bool { return true }
func (u *User) IsAnonymous() bool     { return false }
func (u *User) IsRememberMe() bool    { return u.RememberMe }
func (u *User) Authorities() []string { return u.Roles }

// anonymous is the guest principal used when a request carries no valid
// credentials. It is authenticated in the technical sense (the security
// context holds it) but never passes a fully-authenticated check.
type anonymous struct{}

func (anonymous) Name() string          { return "anonymous" }
func (anonymous) IsAuthenticated() bool { return true }
func (anonymous) IsAnonymous() bool     { return true }
func (anonymous) IsRememberMe() bool    { return false }
func (anonymous) Authorities() []string { return []string{"ROLE_ANONYMOUS"} }

// Anonymous returns the guest principal.
func Anonymous() Principal { return anonymous{} }

// FullyAuthenticated reports whether p is present, authenticated and not the
// anonymous principal. Workspace-admin checks require full authentication.
func FullyAuthenticated(p Principal) bool {
	return p != nil && p.IsAuthenticated() && !p.IsAnonymous()
}

// HasAuthority reports whether p holds the given granted authority.
func HasAuthority(p Principal, authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities() {
		if a == authority {
			return true
		}
	}
	return false
}

// AdminRole is the authority granting unrestricted administrative access.
const AdminRole = "ROLE_ADMINISTRATOR"

// IsAdmin reports whether p is a full administrator. Full administrators
// bypass rule matching and resource filtering entirely.
func IsAdmin(p Principal) bool {
	return FullyAuthenticated(p) && HasAuthority(p, AdminRole)
}
