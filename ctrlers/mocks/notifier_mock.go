package mocks

import (
	"sync"

	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type NotifierMock struct {
	events []abcitypes.Event
	mtx    sync.Mutex
}

var _ ctrlertypes.INotifier = (*NotifierMock)(nil)

func (mock *NotifierMock) Emit(evt abcitypes.Event) {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.events = append(mock.events, evt)
}

func (mock *NotifierMock) Events() []abcitypes.Event {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	return append([]abcitypes.Event(nil), mock.events...)
}

func (mock *NotifierMock) EventsOf(typ string) []abcitypes.Event {
	var ret []abcitypes.Event
	for _, evt := range mock.Events() {
		if evt.Type == typ {
			ret = append(ret, evt)
		}
	}
	return ret
}

func (mock *NotifierMock) Reset() {
	mock.mtx.Lock()
	defer mock.mtx.Unlock()

	mock.events = nil
}

// AttrValue returns the value of the attribute `key` of `evt`.
func AttrValue(evt abcitypes.Event, key string) string {
	for _, attr := range evt.Attributes {
		if string(attr.Key) == key {
			return string(attr.Value)
		}
	}
	return ""
}
