package timeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var _ customerDirectory = &customerDirectoryMock{}

type customerDirectoryMock struct {
	GetByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]domain.Customer, error)

	calls struct {
		GetByIDs []struct {
			Ctx context.Context
			IDs []uuid.UUID
		}
	}
	lockGetByIDs sync.RWMutex
}

func (mock *customerDirectoryMock) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Customer, error) {
	if mock.GetByIDsFunc == nil {
		panic("customerDirectoryMock.GetByIDsFunc: method is nil but customerDirectory.GetByIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		IDs []uuid.UUID
	}{Ctx: ctx, IDs: ids}
	mock.lockGetByIDs.Lock()
	mock.calls.GetByIDs = append(mock.calls.GetByIDs, callInfo)
	mock.lockGetByIDs.Unlock()
	return mock.GetByIDsFunc(ctx, ids)
}

func (mock *customerDirectoryMock) GetByIDsCalls() []struct {
	Ctx context.Context
	IDs []uuid.UUID
} {
	mock.lockGetByIDs.RLock()
	calls := mock.calls.GetByIDs
	mock.lockGetByIDs.RUnlock()
	return calls
}
