package httputil

import (
	"context"
	"net/http"

	"atlas/internal/security/authn"
)

// Context key type to avoid collisions
type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "requestID"
)

// WithPrincipal adds the authenticated principal to the request context
func WithPrincipal(r *http.Request, p authn.Principal) *http.Request {
	ctx := context.WithValue(r.Context(), principalKey, p)
	return r.WithContext(ctx)
}

// GetPrincipal retrieves the principal from context, returns nil if not set
func GetPrincipal(r *http.Request) authn.Principal {
	p, _ := r.Context().Value(principalKey).(authn.Principal)
	return p
}

// PrincipalFromContext retrieves the principal from a bare context
func PrincipalFromContext(ctx context.Context) authn.Principal {
	p, _ := ctx.Value(principalKey).(authn.Principal)
	return p
}

// WithRequestID adds the request ID to the request context
func WithRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, id)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request ID from context, returns empty string if not set
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
