package authz

import "context"

// The authorizer may be consulted several times while one request moves
// through the filter chain. The workspace-admin lookup hits the external
// access manager, so its result is memoized in a value owned by the request
// context: created by middleware when the request comes in, garbage with the
// request when it ends, never shared across requests or principals.

type cacheKey struct{}

// requestCache holds the per-request memoized admin status. The request is
// served by a single goroutine, so no locking is needed.
type requestCache struct {
	workspaceAdmin *bool
}

// WithRequestCache installs a fresh per-request authorization cache on ctx.
func WithRequestCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, cacheKey{}, &requestCache{})
}

func cacheFromContext(ctx context.Context) *requestCache {
	c, _ := ctx.Value(cacheKey{}).(*requestCache)
	return c
}

func (c *requestCache) get() (bool, bool) {
	if c == nil || c.workspaceAdmin == nil {
		return false, false
	}
	return *c.workspaceAdmin, true
}

func (c *requestCache) set(workspaceAdmin bool) {
	if c != nil {
		c.workspaceAdmin = &workspaceAdmin
	}
}
