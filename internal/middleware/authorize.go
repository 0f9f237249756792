package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"atlas/internal/httputil"
	"atlas/internal/security/authn"
	"atlas/internal/security/authz"
)

// managedPrefix is the URL subtree guarded by the decision engine. Paths
// outside it (health checks and the like) pass through untouched.
const managedPrefix = "/rest"

func managed(path string) bool {
	return path == managedPrefix || strings.HasPrefix(path, managedPrefix+"/")
}

// Authorize runs the decision engine on every management API request. A
// denied request is answered with 401 when the caller is not fully
// authenticated (they may retry with credentials) and 403 otherwise. The
// per-request authorization cache is installed here so repeated admin-status
// checks further down the chain hit the access manager at most once.
func Authorize(engine *authz.DecisionEngine, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !managed(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			r = r.WithContext(authz.WithRequestCache(r.Context()))
			principal := httputil.GetPrincipal(r)

			if !engine.Check(r.Context(), principal, r) {
				logger.Info("request denied",
					"principal", principalName(principal),
					"method", r.Method,
					"path", r.URL.Path,
				)
				if !authn.FullyAuthenticated(principal) {
					httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
				} else {
					httputil.RespondError(w, http.StatusForbidden, "access denied")
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func principalName(p authn.Principal) string {
	if p == nil {
		return ""
	}
	return p.Name()
}
