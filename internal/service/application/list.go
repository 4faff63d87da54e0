package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// ListForCustomer returns the active applications at one customer.
func (s *Service) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error) {
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer_id", "required")
	}

	apps, err := s.apps.ListActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list applications by customer: %w", err)
	}
	return apps, nil
}

// ListForUser returns the active applications by one user.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.SkillApplication, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user_id", "required")
	}

	apps, err := s.apps.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications by user: %w", err)
	}
	return apps, nil
}

// Get returns one application by id, ended or not.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.SkillApplication, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("application_id", "required")
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}
