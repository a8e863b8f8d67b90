package audit

import (
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	UserID   *uint
	Role     string
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink persists one event.
type Sink interface {
	Log(ev Event) error
}

type Dispatcher struct {
	sink  Sink
	log   *zap.Logger
	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100), // buffer seguro
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks: with the queue full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains the queue. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}

// Recorder is what the use cases need from the dispatcher.
type Recorder interface {
	Dispatch(ev Event)
}

var _ Recorder = (*Dispatcher)(nil)
