package application

import (
	"context"
	"sync"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var _ activityRepo = &activityRepoMock{}

type activityRepoMock struct {
	CreateFunc func(ctx context.Context, record domain.ActivityRecord) (domain.ActivityRecord, error)

	calls struct {
		Create []struct {
			Ctx    context.Context
			Record domain.ActivityRecord
		}
	}
	lockCreate sync.RWMutex
}

func (mock *activityRepoMock) Create(ctx context.Context, record domain.ActivityRecord) (domain.ActivityRecord, error) {
	if mock.CreateFunc == nil {
		panic("activityRepoMock.CreateFunc: method is nil but activityRepo.Create was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Record domain.ActivityRecord
	}{
		Ctx:    ctx,
		Record: record,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, record)
}

func (mock *activityRepoMock) CreateCalls() []struct {
	Ctx    context.Context
	Record domain.ActivityRecord
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}
