package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var _ applicationRepo = &applicationRepoMock{}

type applicationRepoMock struct {
	GetByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.SkillApplication, error)
	GetActiveByKeyFunc       func(ctx context.Context, key domain.ApplicationKey) (*domain.SkillApplication, error)
	CreateFunc               func(ctx context.Context, app domain.SkillApplication) (*domain.SkillApplication, error)
	UpdateFunc               func(ctx context.Context, id uuid.UUID, params domain.ApplicationUpdateParams) (*domain.SkillApplication, error)
	EndFunc                  func(ctx context.Context, id uuid.UUID, endedAt time.Time) (*domain.SkillApplication, error)
	ListActiveByCustomerFunc func(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error)
	ListActiveByUserFunc     func(ctx context.Context, userID uuid.UUID) ([]domain.SkillApplication, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		GetActiveByKey []struct {
			Ctx context.Context
			Key domain.ApplicationKey
		}
		Create []struct {
			Ctx context.Context
			App domain.SkillApplication
		}
		Update []struct {
			Ctx    context.Context
			ID     uuid.UUID
			Params domain.ApplicationUpdateParams
		}
		End []struct {
			Ctx     context.Context
			ID      uuid.UUID
			EndedAt time.Time
		}
		ListActiveByCustomer []struct {
			Ctx        context.Context
			CustomerID uuid.UUID
		}
		ListActiveByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
	}
	lockGetByID              sync.RWMutex
	lockGetActiveByKey       sync.RWMutex
	lockCreate               sync.RWMutex
	lockUpdate               sync.RWMutex
	lockEnd                  sync.RWMutex
	lockListActiveByCustomer sync.RWMutex
	lockListActiveByUser     sync.RWMutex
}

func (mock *applicationRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.SkillApplication, error) {
	if mock.GetByIDFunc == nil {
		panic("applicationRepoMock.GetByIDFunc: method is nil but applicationRepo.GetByID was just called")
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

func (mock *applicationRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *applicationRepoMock) GetActiveByKey(ctx context.Context, key domain.ApplicationKey) (*domain.SkillApplication, error) {
	if mock.GetActiveByKeyFunc == nil {
		panic("applicationRepoMock.GetActiveByKeyFunc: method is nil but applicationRepo.GetActiveByKey was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key domain.ApplicationKey
	}{
		Ctx: ctx,
		Key: key,
	}
	mock.lockGetActiveByKey.Lock()
	mock.calls.GetActiveByKey = append(mock.calls.GetActiveByKey, callInfo)
	mock.lockGetActiveByKey.Unlock()
	return mock.GetActiveByKeyFunc(ctx, key)
}

func (mock *applicationRepoMock) GetActiveByKeyCalls() []struct {
	Ctx context.Context
	Key domain.ApplicationKey
} {
	mock.lockGetActiveByKey.RLock()
	calls := mock.calls.GetActiveByKey
	mock.lockGetActiveByKey.RUnlock()
	return calls
}

func (mock *applicationRepoMock) Create(ctx context.Context, app domain.SkillApplication) (*domain.SkillApplication, error) {
	if mock.CreateFunc == nil {
		panic("applicationRepoMock.CreateFunc: method is nil but applicationRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		App domain.SkillApplication
	}{
		Ctx: ctx,
		App: app,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, app)
}

func (mock *applicationRepoMock) CreateCalls() []struct {
	Ctx context.Context
	App domain.SkillApplication
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *applicationRepoMock) Update(ctx context.Context, id uuid.UUID, params domain.ApplicationUpdateParams) (*domain.SkillApplication, error) {
	if mock.UpdateFunc == nil {
		panic("applicationRepoMock.UpdateFunc: method is nil but applicationRepo.Update was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		Params domain.ApplicationUpdateParams
	}{
		Ctx:    ctx,
		ID:     id,
		Params: params,
	}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, params)
}

func (mock *applicationRepoMock) UpdateCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	Params domain.ApplicationUpdateParams
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *applicationRepoMock) End(ctx context.Context, id uuid.UUID, endedAt time.Time) (*domain.SkillApplication, error) {
	if mock.EndFunc == nil {
		panic("applicationRepoMock.EndFunc: method is nil but applicationRepo.End was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ID      uuid.UUID
		EndedAt time.Time
	}{
		Ctx:     ctx,
		ID:      id,
		EndedAt: endedAt,
	}
	mock.lockEnd.Lock()
	mock.calls.End = append(mock.calls.End, callInfo)
	mock.lockEnd.Unlock()
	return mock.EndFunc(ctx, id, endedAt)
}

func (mock *applicationRepoMock) EndCalls() []struct {
	Ctx     context.Context
	ID      uuid.UUID
	EndedAt time.Time
} {
	mock.lockEnd.RLock()
	calls := mock.calls.End
	mock.lockEnd.RUnlock()
	return calls
}

func (mock *applicationRepoMock) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error) {
	if mock.ListActiveByCustomerFunc == nil {
		panic("applicationRepoMock.ListActiveByCustomerFunc: method is nil but applicationRepo.ListActiveByCustomer was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		CustomerID uuid.UUID
	}{
		Ctx:        ctx,
		CustomerID: customerID,
	}
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

func (mock *applicationRepoMock) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.SkillApplication, error) {
	if mock.ListActiveByUserFunc == nil {
		panic("applicationRepoMock.ListActiveByUserFunc: method is nil but applicationRepo.ListActiveByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockListActiveByUser.Lock()
	mock.calls.ListActiveByUser = append(mock.calls.ListActiveByUser, callInfo)
	mock.lockListActiveByUser.Unlock()
	return mock.ListActiveByUserFunc(ctx, userID)
}

func (mock *applicationRepoMock) ListActiveByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockListActiveByUser.RLock()
	calls := mock.calls.ListActiveByUser
	mock.lockListActiveByUser.RUnlock()
	return calls
}
