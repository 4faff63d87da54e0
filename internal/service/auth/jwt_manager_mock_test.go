package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var _ jwtManager = &jwtManagerMock{}

type jwtManagerMock struct {
	IssueAccessTokenFunc func(userID uuid.UUID, role domain.UserRole) (string, time.Time, error)

	calls struct {
		IssueAccessToken []struct {
			UserID uuid.UUID
			Role   domain.UserRole
		}
	}
	lockIssueAccessToken sync.RWMutex
}

func (mock *jwtManagerMock) IssueAccessToken(userID uuid.UUID, role domain.UserRole) (string, time.Time, error) {
	if mock.IssueAccessTokenFunc == nil {
		panic("jwtManagerMock.IssueAccessTokenFunc: method is nil but jwtManager.IssueAccessToken was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		Role   domain.UserRole
	}{UserID: userID, Role: role}
	mock.lockIssueAccessToken.Lock()
	mock.calls.IssueAccessToken = append(mock.calls.IssueAccessToken, callInfo)
	mock.lockIssueAccessToken.Unlock()
	return mock.IssueAccessTokenFunc(userID, role)
}

func (mock *jwtManagerMock) IssueAccessTokenCalls() []struct {
	UserID uuid.UUID
	Role   domain.UserRole
} {
	mock.lockIssueAccessToken.RLock()
	calls := mock.calls.IssueAccessToken
	mock.lockIssueAccessToken.RUnlock()
	return calls
}
