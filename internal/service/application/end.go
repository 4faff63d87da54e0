package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
	"github.com/scknurr/tritium-v4-sub001/pkg/ctxutil"
)

// End closes an active application. The row is kept for history; the
// activity record marks the relationship as removed.
func (s *Service) End(ctx context.Context, input EndInput) error {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	app, err := s.apps.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return fmt.Errorf("get application: %w", err)
	}
	if !app.IsActive() {
		return fmt.Errorf("application %s already ended: %w", input.ApplicationID, domain.ErrConflict)
	}

	r, err := s.loadRefs(ctx, app.UserID, app.SkillID, app.CustomerID)
	if err != nil {
		return err
	}

	endedAt := time.Now().UTC()
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ended, endErr := s.apps.End(txCtx, input.ApplicationID, endedAt)
		if endErr != nil {
			return fmt.Errorf("end application: %w", endErr)
		}

		_, logErr := s.activities.Create(txCtx, domain.ActivityRecord{
			ID:          uuid.New(),
			ActorID:     &actorID,
			EntityType:  domain.EntityTypeSkillApplication,
			EntityID:    &ended.ID,
			Operation:   domain.OperationUpdate,
			Kind:        kindPtr(domain.EventSkillRemoved),
			Description: fmt.Sprintf("%s removed %s at %s", r.user.DisplayName(), r.skill.Name, r.customer.Name),
			Metadata:    activityMetadata(r, ended.Proficiency, ended.Notes),
			Changes: []domain.FieldChange{
				{Field: "ended_at", OldValue: nil, NewValue: endedAt.Format(time.RFC3339)},
			},
			CreatedAt: endedAt,
		})
		if logErr != nil {
			return fmt.Errorf("activity log: %w", logErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "skill application ended",
		slog.String("application_id", input.ApplicationID.String()),
		slog.String("user_id", app.UserID.String()),
		slog.String("skill_id", app.SkillID.String()),
		slog.String("customer_id", app.CustomerID.String()),
	)

	return nil
}
