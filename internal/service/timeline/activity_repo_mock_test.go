package timeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var _ activityRepo = &activityRepoMock{}

type activityRepoMock struct {
	ListRecentFunc        func(ctx context.Context, limit int) ([]domain.ActivityRecord, error)
	ListByEntityFunc      func(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.ActivityRecord, error)
	ListForUserFunc       func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ActivityRecord, error)
	ListBySubjectTypeFunc func(ctx context.Context, entityType domain.EntityType, limit int) ([]domain.ActivityRecord, error)
	ListByMetadataRefFunc func(ctx context.Context, ref domain.MetadataRefQuery) ([]domain.ActivityRecord, error)

	calls struct {
		ListRecent []struct {
			Ctx   context.Context
			Limit int
		}
		ListByEntity []struct {
			Ctx        context.Context
			EntityType domain.EntityType
			EntityID   uuid.UUID
			Limit      int
		}
		ListForUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Limit  int
		}
		ListBySubjectType []struct {
			Ctx        context.Context
			EntityType domain.EntityType
			Limit      int
		}
		ListByMetadataRef []struct {
			Ctx context.Context
			Ref domain.MetadataRefQuery
		}
	}
	lockListRecent        sync.RWMutex
	lockListByEntity      sync.RWMutex
	lockListForUser       sync.RWMutex
	lockListBySubjectType sync.RWMutex
	lockListByMetadataRef sync.RWMutex
}

func (mock *activityRepoMock) ListRecent(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	if mock.ListRecentFunc == nil {
		panic("activityRepoMock.ListRecentFunc: method is nil but activityRepo.ListRecent was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Limit int
	}{Ctx: ctx, Limit: limit}
	mock.lockListRecent.Lock()
	mock.calls.ListRecent = append(mock.calls.ListRecent, callInfo)
	mock.lockListRecent.Unlock()
	return mock.ListRecentFunc(ctx, limit)
}

func (mock *activityRepoMock) ListRecentCalls() []struct {
	Ctx   context.Context
	Limit int
} {
	mock.lockListRecent.RLock()
	calls := mock.calls.ListRecent
	mock.lockListRecent.RUnlock()
	return calls
}

func (mock *activityRepoMock) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.ActivityRecord, error) {
	if mock.ListByEntityFunc == nil {
		panic("activityRepoMock.ListByEntityFunc: method is nil but activityRepo.ListByEntity was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		EntityType domain.EntityType
		EntityID   uuid.UUID
		Limit      int
	}{Ctx: ctx, EntityType: entityType, EntityID: entityID, Limit: limit}
	mock.lockListByEntity.Lock()
	mock.calls.ListByEntity = append(mock.calls.ListByEntity, callInfo)
	mock.lockListByEntity.Unlock()
	return mock.ListByEntityFunc(ctx, entityType, entityID, limit)
}

func (mock *activityRepoMock) ListByEntityCalls() []struct {
	Ctx        context.Context
	EntityType domain.EntityType
	EntityID   uuid.UUID
	Limit      int
} {
	mock.lockListByEntity.RLock()
	calls := mock.calls.ListByEntity
	mock.lockListByEntity.RUnlock()
	return calls
}

func (mock *activityRepoMock) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ActivityRecord, error) {
	if mock.ListForUserFunc == nil {
		panic("activityRepoMock.ListForUserFunc: method is nil but activityRepo.ListForUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Limit  int
	}{Ctx: ctx, UserID: userID, Limit: limit}
	mock.lockListForUser.Lock()
	mock.calls.ListForUser = append(mock.calls.ListForUser, callInfo)
	mock.lockListForUser.Unlock()
	return mock.ListForUserFunc(ctx, userID, limit)
}

func (mock *activityRepoMock) ListForUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Limit  int
} {
	mock.lockListForUser.RLock()
	calls := mock.calls.ListForUser
	mock.lockListForUser.RUnlock()
	return calls
}

func (mock *activityRepoMock) ListBySubjectType(ctx context.Context, entityType domain.EntityType, limit int) ([]domain.ActivityRecord, error) {
	if mock.ListBySubjectTypeFunc == nil {
		panic("activityRepoMock.ListBySubjectTypeFunc: method is nil but activityRepo.ListBySubjectType was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		EntityType domain.EntityType
		Limit      int
	}{Ctx: ctx, EntityType: entityType, Limit: limit}
	mock.lockListBySubjectType.Lock()
	mock.calls.ListBySubjectType = append(mock.calls.ListBySubjectType, callInfo)
	mock.lockListBySubjectType.Unlock()
	return mock.ListBySubjectTypeFunc(ctx, entityType, limit)
}

func (mock *activityRepoMock) ListBySubjectTypeCalls() []struct {
	Ctx        context.Context
	EntityType domain.EntityType
	Limit      int
} {
	mock.lockListBySubjectType.RLock()
	calls := mock.calls.ListBySubjectType
	mock.lockListBySubjectType.RUnlock()
	return calls
}

func (mock *activityRepoMock) ListByMetadataRef(ctx context.Context, ref domain.MetadataRefQuery) ([]domain.ActivityRecord, error) {
	if mock.ListByMetadataRefFunc == nil {
		panic("activityRepoMock.ListByMetadataRefFunc: method is nil but activityRepo.ListByMetadataRef was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ref domain.MetadataRefQuery
	}{Ctx: ctx, Ref: ref}
	mock.lockListByMetadataRef.Lock()
	mock.calls.ListByMetadataRef = append(mock.calls.ListByMetadataRef, callInfo)
	mock.lockListByMetadataRef.Unlock()
	return mock.ListByMetadataRefFunc(ctx, ref)
}

func (mock *activityRepoMock) ListByMetadataRefCalls() []struct {
	Ctx context.Context
	Ref domain.MetadataRefQuery
} {
	mock.lockListByMetadataRef.RLock()
	calls := mock.calls.ListByMetadataRef
	mock.lockListByMetadataRef.RUnlock()
	return calls
}
