package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"atlas/internal/httputil"
	"atlas/internal/security/authn"
)

// Auth extracts and verifies the Bearer token, placing the resulting
// principal in the request context. A request without valid credentials
// proceeds as the anonymous principal: the authorization filter downstream
// decides whether anonymous access is acceptable for the path.
func Auth(verifier authn.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := authn.Anonymous()

			if token, ok := bearerToken(r); ok {
				claims, err := verifier.VerifyToken(token)
				if err != nil {
					logger.Debug("token rejected",
						"path", r.URL.Path,
						"error", err,
					)
				} else {
					principal = claims.Principal()
				}
			}

			next.ServeHTTP(w, httputil.WithPrincipal(r, principal))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
