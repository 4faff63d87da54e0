package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
	"github.com/scknurr/tritium-v4-sub001/pkg/ctxutil"
)

// Apply records that a user now applies a skill at a customer. One
// (user, skill, customer) triple can have at most one active application.
func (s *Service) Apply(ctx context.Context, input ApplyInput) (*domain.SkillApplication, error) {
	actorID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	userID := input.UserID
	if userID == uuid.Nil {
		userID = actorID
	}

	r, err := s.loadRefs(ctx, userID, input.SkillID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	key := domain.ApplicationKey{UserID: userID, SkillID: input.SkillID, CustomerID: input.CustomerID}
	if _, err := s.apps.GetActiveByKey(ctx, key); err == nil {
		return nil, fmt.Errorf("active application exists: %w", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check active application: %w", err)
	}

	now := time.Now().UTC()
	startedAt := now
	if input.StartedAt != nil {
		startedAt = input.StartedAt.UTC()
	}
	notes := trimOrNil(input.Notes)

	var created *domain.SkillApplication
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.apps.Create(txCtx, domain.SkillApplication{
			ID:          uuid.New(),
			UserID:      userID,
			SkillID:     input.SkillID,
			CustomerID:  input.CustomerID,
			Proficiency: input.Proficiency,
			Notes:       notes,
			StartedAt:   startedAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if createErr != nil {
			return fmt.Errorf("create application: %w", createErr)
		}

		_, logErr := s.activities.Create(txCtx, domain.ActivityRecord{
			ID:          uuid.New(),
			ActorID:     &actorID,
			EntityType:  domain.EntityTypeSkillApplication,
			EntityID:    &created.ID,
			Operation:   domain.OperationCreate,
			Kind:        kindPtr(domain.EventSkillApplied),
			Description: fmt.Sprintf("%s applied %s at %s", r.user.DisplayName(), r.skill.Name, r.customer.Name),
			Metadata:    activityMetadata(r, input.Proficiency, notes),
			CreatedAt:   now,
		})
		if logErr != nil {
			return fmt.Errorf("activity log: %w", logErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill application created",
		slog.String("application_id", created.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("skill_id", input.SkillID.String()),
		slog.String("customer_id", input.CustomerID.String()),
	)

	return created, nil
}
