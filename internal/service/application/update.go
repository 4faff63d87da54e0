package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
	"github.com/scknurr/tritium-v4-sub001/pkg/ctxutil"
)

// Update changes the proficiency or notes of an active application.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.SkillApplication, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.SkillApplication
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Fetch old state inside the transaction for an accurate diff.
		old, getErr := s.apps.GetByID(txCtx, input.ApplicationID)
		if getErr != nil {
			return fmt.Errorf("get application: %w", getErr)
		}
		if !old.IsActive() {
			return fmt.Errorf("application %s already ended: %w", input.ApplicationID, domain.ErrConflict)
		}

		r, refsErr := s.loadRefs(txCtx, old.UserID, old.SkillID, old.CustomerID)
		if refsErr != nil {
			return refsErr
		}

		params := domain.ApplicationUpdateParams{Proficiency: input.Proficiency}
		if input.Notes != nil {
			trimmed := strings.TrimSpace(*input.Notes)
			params.Notes = &trimmed // "" clears notes -> NULL in DB
		}

		var updateErr error
		updated, updateErr = s.apps.Update(txCtx, input.ApplicationID, params)
		if updateErr != nil {
			return fmt.Errorf("update application: %w", updateErr)
		}

		// Skip the activity record if nothing actually changed.
		changes := buildApplicationChanges(old, updated)
		if len(changes) == 0 {
			return nil
		}

		_, logErr := s.activities.Create(txCtx, domain.ActivityRecord{
			ID:          uuid.New(),
			ActorID:     &actorID,
			EntityType:  domain.EntityTypeSkillApplication,
			EntityID:    &updated.ID,
			Operation:   domain.OperationUpdate,
			Kind:        kindPtr(domain.EventSkillApplied),
			Description: fmt.Sprintf("%s updated %s at %s", r.user.DisplayName(), r.skill.Name, r.customer.Name),
			Metadata:    activityMetadata(r, updated.Proficiency, updated.Notes),
			Changes:     changes,
			CreatedAt:   time.Now().UTC(),
		})
		if logErr != nil {
			return fmt.Errorf("activity log: %w", logErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill application updated",
		slog.String("application_id", input.ApplicationID.String()),
		slog.String("user_id", updated.UserID.String()),
	)

	return updated, nil
}

// buildApplicationChanges returns only changed fields.
func buildApplicationChanges(old, updated *domain.SkillApplication) []domain.FieldChange {
	var changes []domain.FieldChange

	if old.Proficiency != updated.Proficiency {
		changes = append(changes, domain.FieldChange{
			Field:    "proficiency",
			OldValue: old.Proficiency.String(),
			NewValue: updated.Proficiency.String(),
		})
	}

	oldNotes, newNotes := "", ""
	if old.Notes != nil {
		oldNotes = *old.Notes
	}
	if updated.Notes != nil {
		newNotes = *updated.Notes
	}
	if oldNotes != newNotes || (old.Notes == nil) != (updated.Notes == nil) {
		changes = append(changes, domain.FieldChange{
			Field:    "notes",
			OldValue: old.Notes,
			NewValue: updated.Notes,
		})
	}

	return changes
}
