package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
	"github.com/scknurr/tritium-v4-sub001/internal/service/timeline"
	"github.com/scknurr/tritium-v4-sub001/internal/transport/middleware"
	"github.com/scknurr/tritium-v4-sub001/pkg/ctxutil"
)

// timelineService defines the minimal interface needed by TimelineHandler.
type timelineService interface {
	Assemble(ctx context.Context, f timeline.Filter) ([]domain.UnifiedEvent, error)
	Watch(ctx context.Context, f timeline.Filter) (<-chan []domain.UnifiedEvent, error)
	Reconcile(ctx context.Context, customerID uuid.UUID) (*timeline.ReconcileReport, error)
}

// TimelineHandler serves the unified activity timeline endpoints.
type TimelineHandler struct {
	svc       timelineService
	log       *slog.Logger
	keepAlive time.Duration
}

// NewTimelineHandler creates a TimelineHandler. keepAlive is the interval
// between SSE heartbeat comments on otherwise quiet streams.
func NewTimelineHandler(svc timelineService, logger *slog.Logger, keepAlive time.Duration) *TimelineHandler {
	return &TimelineHandler{
		svc:       svc,
		log:       logger.With("handler", "timeline"),
		keepAlive: keepAlive,
	}
}

// Get handles GET /api/v1/timeline.
// Query params: entity_type, entity_id, related_type, related_id, limit.
func (h *TimelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.svc.Assemble(r.Context(), f)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	if events == nil {
		events = []domain.UnifiedEvent{}
	}

	writeJSON(w, http.StatusOK, events)
}

// Stream handles GET /api/v1/timeline/stream as Server-Sent Events. The
// first event is the current snapshot; every matching change pushes a
// freshly assembled one. Heartbeat comments keep intermediaries from
// closing quiet connections.
func (h *TimelineHandler) Stream(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	snapshots, err := h.svc.Watch(ctx, f)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	// The server's write timeout would cut the stream; long-lived
	// responses manage their own deadline.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.log.DebugContext(ctx, "clear write deadline", slog.String("error", err.Error()))
	}

	heartbeat := time.NewTicker(h.keepAlive)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case events, ok := <-snapshots:
			if !ok {
				return
			}
			if err := writeSSESnapshot(w, rc, events); err != nil {
				h.log.DebugContext(ctx, "stream write failed", slog.String("error", err.Error()))
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeSSESnapshot(w http.ResponseWriter, rc *http.ResponseController, events []domain.UnifiedEvent) error {
	if events == nil {
		events = []domain.UnifiedEvent{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: timeline\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}

// Reconcile handles GET /api/v1/timeline/reconcile. Admin only. The
// optional customer_id query param scopes the check to one customer.
func (h *TimelineHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	customerID := uuid.Nil
	if v := r.URL.Query().Get("customer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid customer_id")
			return
		}
		customerID = id
	}

	report, err := h.svc.Reconcile(r.Context(), customerID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// filterFromQuery builds a timeline filter from query parameters. Only
// syntactic errors are rejected here; semantic validation happens in the
// service.
func filterFromQuery(r *http.Request) (timeline.Filter, error) {
	q := r.URL.Query()

	f := timeline.Filter{
		EntityType:  domain.EntityType(q.Get("entity_type")),
		RelatedType: domain.EntityType(q.Get("related_type")),
	}

	if v := q.Get("entity_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return timeline.Filter{}, fmt.Errorf("invalid entity_id")
		}
		f.EntityID = &id
	}
	if v := q.Get("related_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return timeline.Filter{}, fmt.Errorf("invalid related_id")
		}
		f.RelatedID = &id
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return timeline.Filter{}, fmt.Errorf("invalid limit")
		}
		f.Limit = n
	}

	return f, nil
}
