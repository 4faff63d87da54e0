// Package application implements the skill application write path: a user
// applies, updates, or ends a skill at a customer. Every mutation commits
// the relationship row together with its activity record in one
// transaction, stamped with the canonical metadata the timeline pipeline
// resolves without guessing.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

type applicationRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SkillApplication, error)
	GetActiveByKey(ctx context.Context, key domain.ApplicationKey) (*domain.SkillApplication, error)
	Create(ctx context.Context, app domain.SkillApplication) (*domain.SkillApplication, error)
	Update(ctx context.Context, id uuid.UUID, params domain.ApplicationUpdateParams) (*domain.SkillApplication, error)
	End(ctx context.Context, id uuid.UUID, endedAt time.Time) (*domain.SkillApplication, error)
	ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.SkillApplication, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type skillRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Skill, error)
}

type customerRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type activityRepo interface {
	Create(ctx context.Context, record domain.ActivityRecord) (domain.ActivityRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides skill application management operations.
type Service struct {
	apps       applicationRepo
	users      userRepo
	skills     skillRepo
	customers  customerRepo
	activities activityRepo
	tx         txManager
	log        *slog.Logger
}

// NewService creates a new application service.
func NewService(
	log *slog.Logger,
	apps applicationRepo,
	users userRepo,
	skills skillRepo,
	customers customerRepo,
	activities activityRepo,
	tx txManager,
) *Service {
	return &Service{
		apps:       apps,
		users:      users,
		skills:     skills,
		customers:  customers,
		activities: activities,
		tx:         tx,
		log:        log.With("service", "application"),
	}
}

// refs bundles the entities an application points at.
type refs struct {
	user     *domain.User
	skill    *domain.Skill
	customer *domain.Customer
}

// loadRefs fetches the referenced user, skill and customer.
func (s *Service) loadRefs(ctx context.Context, userID, skillID, customerID uuid.UUID) (refs, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return refs{}, fmt.Errorf("get user: %w", err)
	}
	skill, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return refs{}, fmt.Errorf("get skill: %w", err)
	}
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return refs{}, fmt.Errorf("get customer: %w", err)
	}
	return refs{user: user, skill: skill, customer: customer}, nil
}

// activityMetadata is the canonical payload this writer stamps on every
// application event. Readers resolve the ids first and fall back to names.
func activityMetadata(r refs, proficiency domain.Proficiency, notes *string) map[string]any {
	m := map[string]any{
		"user_id":       r.user.ID.String(),
		"user_name":     r.user.DisplayName(),
		"skill_id":      r.skill.ID.String(),
		"skill_name":    r.skill.Name,
		"customer_id":   r.customer.ID.String(),
		"customer_name": r.customer.Name,
		"proficiency":   proficiency.String(),
	}
	if notes != nil {
		m["notes"] = *notes
	}
	return m
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// kindPtr returns a pointer to the given event kind.
func kindPtr(k domain.EventKind) *domain.EventKind {
	return &k
}
