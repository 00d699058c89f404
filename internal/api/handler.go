package api

import (
	"encoding/json"
	"net/http"

	"github.com/tickcast/tickcast/internal/status"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	stats *status.Store
	mux   *http.ServeMux
}

// New creates a Handler reading from st and registers all routes.
func New(st *status.Store) http.Handler {
	h := &Handler{stats: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/status", h.status)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — reactor lifecycle state.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := h.stats.Snapshot()
	jsonResp(w, http.StatusOK, HealthResponse{
		State:       snap.State,
		Connections: snap.Connections,
	})
}

// status returns GET /api/v1/status — full runtime counters.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := h.stats.Snapshot()
	jsonResp(w, http.StatusOK, StatusResponse{
		State:         snap.State,
		Connections:   snap.Connections,
		Broadcasts:    snap.Broadcasts,
		FramesSent:    snap.FramesSent,
		UptimeSeconds: h.stats.Uptime().Seconds(),
	})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
