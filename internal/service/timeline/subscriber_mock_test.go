package timeline

import (
	"sync"
)

var _ subscriber = &subscriberMock{}

type subscriberMock struct {
	SubscribeFunc func() (<-chan []byte, func())

	calls struct {
		Subscribe []struct{}
	}
	lockSubscribe sync.RWMutex
}

func (mock *subscriberMock) Subscribe() (<-chan []byte, func()) {
	if mock.SubscribeFunc == nil {
		panic("subscriberMock.SubscribeFunc: method is nil but subscriber.Subscribe was just called")
	}
	mock.lockSubscribe.Lock()
	mock.calls.Subscribe = append(mock.calls.Subscribe, struct{}{})
	mock.lockSubscribe.Unlock()
	return mock.SubscribeFunc()
}

func (mock *subscriberMock) SubscribeCalls() []struct{} {
	mock.lockSubscribe.RLock()
	calls := mock.calls.Subscribe
	mock.lockSubscribe.RUnlock()
	return calls
}
