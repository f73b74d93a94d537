package handler

import "net/http"

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// handlePreflight handles OPTIONS on any path. The requested headers and
// method are echoed back in place of the defaults.
func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	if v := r.Header.Get("Access-Control-Request-Headers"); v != "" {
		w.Header().Set("Access-Control-Allow-Headers", v)
	}
	if v := r.Header.Get("Access-Control-Request-Method"); v != "" {
		w.Header().Set("Access-Control-Allow-Methods", v)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
