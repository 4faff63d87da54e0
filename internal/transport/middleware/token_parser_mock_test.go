package middleware

import (
	"sync"

	"github.com/scknurr/tritium-v4-sub001/internal/auth"
)

var _ tokenParser = &tokenParserMock{}

type tokenParserMock struct {
	ParseAccessTokenFunc func(token string) (auth.Identity, error)

	calls struct {
		ParseAccessToken []struct {
			Token string
		}
	}
	lockParseAccessToken sync.RWMutex
}

func (mock *tokenParserMock) ParseAccessToken(token string) (auth.Identity, error) {
	if mock.ParseAccessTokenFunc == nil {
		panic("tokenParserMock.ParseAccessTokenFunc: method is nil but tokenParser.ParseAccessToken was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockParseAccessToken.Lock()
	mock.calls.ParseAccessToken = append(mock.calls.ParseAccessToken, callInfo)
	mock.lockParseAccessToken.Unlock()
	return mock.ParseAccessTokenFunc(token)
}

func (mock *tokenParserMock) ParseAccessTokenCalls() []struct {
	Token string
} {
	mock.lockParseAccessToken.RLock()
	calls := mock.calls.ParseAccessToken
	mock.lockParseAccessToken.RUnlock()
	return calls
}
