package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
	"github.com/scknurr/tritium-v4-sub001/internal/service/application"
)

// applicationService defines the minimal interface needed by ApplicationsHandler.
type applicationService interface {
	Apply(ctx context.Context, input application.ApplyInput) (*domain.SkillApplication, error)
	Update(ctx context.Context, input application.UpdateInput) (*domain.SkillApplication, error)
	End(ctx context.Context, input application.EndInput) error
	Get(ctx context.Context, id uuid.UUID) (*domain.SkillApplication, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.SkillApplication, error)
}

// ApplicationsHandler serves the skill-application endpoints.
type ApplicationsHandler struct {
	svc applicationService
	log *slog.Logger
}

// NewApplicationsHandler creates an ApplicationsHandler.
func NewApplicationsHandler(svc applicationService, logger *slog.Logger) *ApplicationsHandler {
	return &ApplicationsHandler{svc: svc, log: logger.With("handler", "applications")}
}

type applyRequest struct {
	UserID      *string    `json:"user_id,omitempty"` // omit to apply as the authenticated user
	SkillID     string     `json:"skill_id"`
	CustomerID  string     `json:"customer_id"`
	Proficiency string     `json:"proficiency"`
	Notes       *string    `json:"notes,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

type updateApplicationRequest struct {
	Proficiency *string `json:"proficiency,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type applicationResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SkillID     string     `json:"skill_id"`
	CustomerID  string     `json:"customer_id"`
	Proficiency string     `json:"proficiency"`
	Notes       *string    `json:"notes,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// Create handles POST /api/v1/applications.
func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := application.ApplyInput{
		Proficiency: domain.Proficiency(req.Proficiency),
		Notes:       req.Notes,
		StartedAt:   req.StartedAt,
	}

	if req.UserID != nil {
		id, err := uuid.Parse(*req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		input.UserID = id
	}
	var err error
	if input.SkillID, err = parseOptionalUUID(req.SkillID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill_id")
		return
	}
	if input.CustomerID, err = parseOptionalUUID(req.CustomerID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer_id")
		return
	}

	created, err := h.svc.Apply(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toApplicationResponse(created))
}

// Update handles PATCH /api/v1/applications/{id}.
func (h *ApplicationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := application.UpdateInput{
		ApplicationID: id,
		Notes:         req.Notes,
	}
	if req.Proficiency != nil {
		p := domain.Proficiency(*req.Proficiency)
		input.Proficiency = &p
	}

	updated, err := h.svc.Update(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponse(updated))
}

// End handles DELETE /api/v1/applications/{id}. The row is ended, not
// removed; history stays in the activity log.
func (h *ApplicationsHandler) End(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.End(r.Context(), application.EndInput{ApplicationID: id}); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/v1/applications/{id}.
func (h *ApplicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	app, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

// ListByCustomer handles GET /api/v1/customers/{id}/applications.
func (h *ApplicationsHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	apps, err := h.svc.ListForCustomer(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponses(apps))
}

// ListByUser handles GET /api/v1/users/{id}/applications.
func (h *ApplicationsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	apps, err := h.svc.ListForUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponses(apps))
}

// pathUUID parses the named path segment as a UUID, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID parses a UUID string, mapping "" to uuid.Nil so the
// service's required-field validation reports it.
func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

func toApplicationResponse(app *domain.SkillApplication) applicationResponse {
	return applicationResponse{
		ID:          app.ID.String(),
		UserID:      app.UserID.String(),
		SkillID:     app.SkillID.String(),
		CustomerID:  app.CustomerID.String(),
		Proficiency: app.Proficiency.String(),
		Notes:       app.Notes,
		StartedAt:   app.StartedAt,
		EndedAt:     app.EndedAt,
	}
}

func toApplicationResponses(apps []domain.SkillApplication) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toApplicationResponse(&apps[i]))
	}
	return out
}
