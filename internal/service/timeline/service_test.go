package timeline

import (
	"context"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

//go:generate moq -out activity_repo_mock_test.go -pkg timeline . activityRepo
//go:generate moq -out application_repo_mock_test.go -pkg timeline . applicationRepo
//go:generate moq -out user_directory_mock_test.go -pkg timeline . userDirectory
//go:generate moq -out customer_directory_mock_test.go -pkg timeline . customerDirectory
//go:generate moq -out skill_directory_mock_test.go -pkg timeline . skillDirectory
//go:generate moq -out subscriber_mock_test.go -pkg timeline . subscriber

// defaultCfg returns pipeline tunables suitable for most tests.
func defaultCfg() Config {
	return Config{
		DefaultLimit:    50,
		MaxLimit:        200,
		WatchBuffer:     4,
		AssembleTimeout: 5 * time.Second,
	}
}

// newTestService creates a Service with the given mocks and a default logger.
func newTestService(
	t *testing.T,
	activities *activityRepoMock,
	apps *applicationRepoMock,
	users *userDirectoryMock,
	customers *customerDirectoryMock,
	skills *skillDirectoryMock,
	sub *subscriberMock,
) *Service {
	t.Helper()
	return NewService(slog.Default(), defaultCfg(), activities, apps, users, customers, skills, sub)
}

// userDirOf returns a directory mock serving exactly the given users.
func userDirOf(users ...domain.User) *userDirectoryMock {
	return &userDirectoryMock{
		GetByIDsFunc: func(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
			var out []domain.User
			for _, u := range users {
				if slices.Contains(ids, u.ID) {
					out = append(out, u)
				}
			}
			return out, nil
		},
	}
}

// customerDirOf returns a directory mock serving exactly the given customers.
func customerDirOf(customers ...domain.Customer) *customerDirectoryMock {
	return &customerDirectoryMock{
		GetByIDsFunc: func(_ context.Context, ids []uuid.UUID) ([]domain.Customer, error) {
			var out []domain.Customer
			for _, c := range customers {
				if slices.Contains(ids, c.ID) {
					out = append(out, c)
				}
			}
			return out, nil
		},
	}
}

// skillDirOf returns a directory mock serving exactly the given skills.
func skillDirOf(skills ...domain.Skill) *skillDirectoryMock {
	return &skillDirectoryMock{
		GetByIDsFunc: func(_ context.Context, ids []uuid.UUID) ([]domain.Skill, error) {
			var out []domain.Skill
			for _, s := range skills {
				if slices.Contains(ids, s.ID) {
					out = append(out, s)
				}
			}
			return out, nil
		},
	}
}

// defaultSubscriberMock returns a subscriber whose channel never fires.
func defaultSubscriberMock() *subscriberMock {
	return &subscriberMock{
		SubscribeFunc: func() (<-chan []byte, func()) {
			return make(chan []byte), func() {}
		},
	}
}

// buildRecord returns a minimal well-formed record for tests to mutate.
func buildRecord(entityType domain.EntityType, op domain.Operation) domain.ActivityRecord {
	entityID := uuid.New()
	return domain.ActivityRecord{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   &entityID,
		Operation:  op,
		CreatedAt:  time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func ptrKind(k domain.EventKind) *domain.EventKind { return &k }

func ptrString(s string) *string { return &s }
