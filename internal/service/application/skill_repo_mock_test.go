package application

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var _ skillRepo = &skillRepoMock{}

type skillRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Skill, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *skillRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	if mock.GetByIDFunc == nil {
		panic("skillRepoMock.GetByIDFunc: method is nil but skillRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{
		Ctx: ctx,
		ID:  id,
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *skillRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
