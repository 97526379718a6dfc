package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthHandler serves GET /health.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck // best effort
}
