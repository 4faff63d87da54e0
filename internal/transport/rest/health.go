package rest

import (
	"context"
	"net/http"
	"time"
)

// dbPinger is the slice of pgxpool.Pool the probes need.
type dbPinger interface {
	Ping(ctx context.Context) error
}

const probeTimeout = 3 * time.Second

// HealthHandler serves the liveness, readiness, and full health probes.
type HealthHandler struct {
	db      dbPinger
	version string
}

func NewHealthHandler(db dbPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

type healthPayload struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]componentHealth `json:"components,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}

type componentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live reports process liveness. Always 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthPayload{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 200 once the database accepts connections, 503 before that.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		status, code = "down", http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthPayload{Status: status, Timestamp: time.Now()})
}

// Health reports overall status plus per-component detail: the database
// probe with its round-trip latency, and the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	db := h.probeDB(ctx)

	payload := healthPayload{
		Status:     db.Status,
		Version:    h.version,
		Components: map[string]componentHealth{"database": db},
		Timestamp:  time.Now(),
	}
	code := http.StatusOK
	if payload.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (h *HealthHandler) probeDB(ctx context.Context) componentHealth {
	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return componentHealth{Status: "down"}
	}
	return componentHealth{Status: "ok", Latency: time.Since(start).String()}
}
