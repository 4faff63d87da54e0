package timeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var _ applicationRepo = &applicationRepoMock{}

type applicationRepoMock struct {
	ListActiveFunc           func(ctx context.Context) ([]domain.SkillApplication, error)
	ListActiveByCustomerFunc func(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error)

	calls struct {
		ListActive []struct {
			Ctx context.Context
		}
		ListActiveByCustomer []struct {
			Ctx        context.Context
			CustomerID uuid.UUID
		}
	}
	lockListActive           sync.RWMutex
	lockListActiveByCustomer sync.RWMutex
}

func (mock *applicationRepoMock) ListActive(ctx context.Context) ([]domain.SkillApplication, error) {
	if mock.ListActiveFunc == nil {
		panic("applicationRepoMock.ListActiveFunc: method is nil but applicationRepo.ListActive was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockListActive.Lock()
	mock.calls.ListActive = append(mock.calls.ListActive, callInfo)
	mock.lockListActive.Unlock()
	return mock.ListActiveFunc(ctx)
}

func (mock *applicationRepoMock) ListActiveCalls() []struct {
	Ctx context.Context
} {
	mock.lockListActive.RLock()
	calls := mock.calls.ListActive
	mock.lockListActive.RUnlock()
	return calls
}

func (mock *applicationRepoMock) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error) {
	if mock.ListActiveByCustomerFunc == nil {
		panic("applicationRepoMock.ListActiveByCustomerFunc: method is nil but applicationRepo.ListActiveByCustomer was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		CustomerID uuid.UUID
	}{Ctx: ctx, CustomerID: customerID}
	mock.lockListActiveByCustomer.Lock()
	mock.calls.ListActiveByCustomer = append(mock.calls.ListActiveByCustomer, callInfo)
	mock.lockListActiveByCustomer.Unlock()
	return mock.ListActiveByCustomerFunc(ctx, customerID)
}

func (mock *applicationRepoMock) ListActiveByCustomerCalls() []struct {
	Ctx        context.Context
	CustomerID uuid.UUID
} {
	mock.lockListActiveByCustomer.RLock()
	calls := mock.calls.ListActiveByCustomer
	mock.lockListActiveByCustomer.RUnlock()
	return calls
}
