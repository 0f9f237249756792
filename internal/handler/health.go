package handler

import (
	"net/http"

	"atlas/internal/httputil"
)

// HealthCheck responds with service liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
