package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	err    error
	gate   chan struct{}
}

func (s *memorySink) Log(ev Event) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink, zap.NewNop())

	d.Dispatch(Event{Action: "booking_created"})
	d.Dispatch(Event{Action: "booking_cancelled"})
	d.Close()

	assert.Len(t, sink.events, 2)
	assert.Equal(t, "booking_created", sink.events[0].Action)
	assert.Equal(t, "booking_cancelled", sink.events[1].Action)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sink := &memorySink{gate: make(chan struct{})}
	d := NewDispatcher(sink, zap.NewNop())

	// one event held by the worker plus a full buffer; the rest is dropped
	for i := 0; i < 150; i++ {
		d.Dispatch(Event{Action: "x"})
	}
	close(sink.gate)
	d.Close()

	assert.LessOrEqual(t, len(sink.events), 101)
	assert.GreaterOrEqual(t, len(sink.events), 100)
}

func TestDispatcher_SinkErrorsDoNotStopWorker(t *testing.T) {
	sink := &memorySink{err: errors.New("db down")}
	d := NewDispatcher(sink, zap.NewNop())

	d.Dispatch(Event{Action: "a"})
	d.Dispatch(Event{Action: "b"})
	d.Close()

	assert.Len(t, sink.events, 2)
}
