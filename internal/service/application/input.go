package application

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// ApplyInput holds the parameters for applying a skill at a customer.
type ApplyInput struct {
	UserID      uuid.UUID // uuid.Nil means the authenticated user
	SkillID     uuid.UUID
	CustomerID  uuid.UUID
	Proficiency domain.Proficiency
	Notes       *string
	StartedAt   *time.Time // nil means now
}

// Validate checks all fields and collects all errors.
func (i ApplyInput) Validate() error {
	var errs []domain.FieldError

	if i.SkillID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "skill_id", Message: "required"})
	}
	if i.CustomerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "customer_id", Message: "required"})
	}
	if i.Proficiency == "" {
		errs = append(errs, domain.FieldError{Field: "proficiency", Message: "required"})
	} else if !i.Proficiency.IsValid() {
		errs = append(errs, domain.FieldError{Field: "proficiency", Message: "must be BEGINNER, INTERMEDIATE, ADVANCED or EXPERT"})
	}
	if i.Notes != nil && len(strings.TrimSpace(*i.Notes)) > 500 {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for updating an application.
type UpdateInput struct {
	ApplicationID uuid.UUID
	Proficiency   *domain.Proficiency
	Notes         *string // nil = don't change; ptr("") = clear
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.ApplicationID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "application_id", Message: "required"})
	}
	if i.Proficiency == nil && i.Notes == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Proficiency != nil && !i.Proficiency.IsValid() {
		errs = append(errs, domain.FieldError{Field: "proficiency", Message: "must be BEGINNER, INTERMEDIATE, ADVANCED or EXPERT"})
	}
	if i.Notes != nil && len(*i.Notes) > 500 {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// EndInput holds the parameters for ending an application.
type EndInput struct {
	ApplicationID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i EndInput) Validate() error {
	if i.ApplicationID == uuid.Nil {
		return domain.NewValidationError("application_id", "required")
	}
	return nil
}
