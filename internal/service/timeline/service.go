// Package timeline assembles raw activity log records into unified,
// display-ready events. The pipeline classifies each record into a closed
// event taxonomy, resolves the actor and any related entities against
// batch-fetched reference directories, normalizes the heterogeneous
// metadata payloads, merges and dedups overlapping query results, and
// sorts newest first. Watch re-runs the pipeline on database change
// notifications; Reconcile checks the event-derived relationship set
// against the live skill_applications table.
package timeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

type activityRepo interface {
	ListRecent(ctx context.Context, limit int) ([]domain.ActivityRecord, error)
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.ActivityRecord, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ActivityRecord, error)
	ListBySubjectType(ctx context.Context, entityType domain.EntityType, limit int) ([]domain.ActivityRecord, error)
	ListByMetadataRef(ctx context.Context, ref domain.MetadataRefQuery) ([]domain.ActivityRecord, error)
}

type applicationRepo interface {
	ListActive(ctx context.Context) ([]domain.SkillApplication, error)
	ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error)
}

type userDirectory interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

type customerDirectory interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Customer, error)
}

type skillDirectory interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Skill, error)
}

type subscriber interface {
	Subscribe() (<-chan []byte, func())
}

// Config carries the pipeline tunables.
type Config struct {
	DefaultLimit    int
	MaxLimit        int
	WatchBuffer     int
	AssembleTimeout time.Duration
}

// Service provides the unified activity timeline.
type Service struct {
	cfg        Config
	activities activityRepo
	apps       applicationRepo
	users      userDirectory
	customers  customerDirectory
	skills     skillDirectory
	sub        subscriber
	log        *slog.Logger
}

// NewService creates a new timeline service.
func NewService(
	log *slog.Logger,
	cfg Config,
	activities activityRepo,
	apps applicationRepo,
	users userDirectory,
	customers customerDirectory,
	skills skillDirectory,
	sub subscriber,
) *Service {
	return &Service{
		cfg:        cfg,
		activities: activities,
		apps:       apps,
		users:      users,
		customers:  customers,
		skills:     skills,
		sub:        sub,
		log:        log.With("service", "timeline"),
	}
}
