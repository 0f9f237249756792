package authn

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claims structure issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims          // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string   `json:"email"`
	Role                 string   `json:"role"`  // "authenticated" or "anon"
	Roles                []string `json:"roles"` // granted authorities
	AMR                  []string `json:"amr"`   // Authentication Method References
	SessionID            string   `json:"session_id"`
	IsAnonymous          bool     `json:"is_anonymous"`
}

// Principal converts the verified claims into the engine's principal model.
// Anonymous tokens map to the guest principal; a "remember_me" authentication
// method marks the principal as remembered rather than fully authenticated.
func (c *Claims) Principal() Principal {
	if c.IsAnonymous || c.Role == "anon" {
		return Anonymous()
	}
	rememberMe := false
	for _, m := range c.AMR {
		if m == "remember_me" {
			rememberMe = true
			break
		}
	}
	return &User{
		Subject:    c.Subject,
		Roles:      c.Roles,
		RememberMe: rememberMe,
	}
}
