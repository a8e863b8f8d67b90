package calendar

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// Tracker stores the external id of a booking once the event exists.
type Tracker interface {
	SetExternalCalendarID(ctx context.Context, id uint, externalID string) error
}

type jobKind int

const (
	jobSync jobKind = iota
	jobRemove
)

type job struct {
	kind       jobKind
	booking    models.Booking
	bookingID  uint
	externalID string
}

// Dispatcher runs notifier calls on a single background worker, in the order
// they were published.
type Dispatcher struct {
	notifier Notifier
	tracker  Tracker
	log      *zap.Logger
	timeout  time.Duration
	queue    chan job

	// external ids learned by the worker that may not be visible yet in
	// booking snapshots published before the id was stored
	known map[uint]string

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(notifier Notifier, tracker Tracker, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		tracker:  tracker,
		log:      log,
		timeout:  10 * time.Second,
		queue:    make(chan job, 256),
		known:    make(map[uint]string),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

// Sync mirrors the current state of b: an event that exists is updated,
// a confirmed booking without one gets it created, anything else is skipped.
func (d *Dispatcher) Sync(b *models.Booking) {
	d.enqueue(job{kind: jobSync, booking: *b, bookingID: b.ID})
}

// Remove deletes the event of a booking. externalID may be empty when the
// caller does not know it yet.
func (d *Dispatcher) Remove(bookingID uint, externalID string) {
	d.enqueue(job{kind: jobRemove, bookingID: bookingID, externalID: externalID})
}

// Close drains pending jobs.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.queue <- j:
	default:
		metrics.IncCalendarSyncFailed("dropped")
		d.log.Warn("calendar queue full, dropping job", zap.Uint("booking_id", j.bookingID))
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for j := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		switch j.kind {
		case jobSync:
			d.sync(ctx, &j.booking)
		case jobRemove:
			d.remove(ctx, j.bookingID, j.externalID)
		}
		cancel()
	}
}

func (d *Dispatcher) sync(ctx context.Context, b *models.Booking) {
	ext := b.ExternalCalendarID
	if ext == "" {
		ext = d.known[b.ID]
	}

	if ext != "" {
		if err := d.notifier.NotifyUpdated(ctx, b, ext); err != nil {
			d.failed("update", b.ID, err)
		}
		return
	}

	if b.Status != "agendado" {
		return
	}

	ext, err := d.notifier.NotifyCreated(ctx, b)
	if err != nil {
		d.failed("create", b.ID, err)
		return
	}
	if ext == "" {
		return
	}

	d.known[b.ID] = ext
	if err := d.tracker.SetExternalCalendarID(ctx, b.ID, ext); err != nil {
		d.failed("track", b.ID, err)
	}
}

func (d *Dispatcher) remove(ctx context.Context, bookingID uint, ext string) {
	learned := false
	if ext == "" {
		ext, learned = d.known[bookingID]
	}
	delete(d.known, bookingID)

	if ext == "" {
		return
	}

	if err := d.notifier.NotifyDeleted(ctx, ext); err != nil {
		d.failed("delete", bookingID, err)
		return
	}

	// the id was stored by this worker after the caller cleared it
	if learned {
		if err := d.tracker.SetExternalCalendarID(ctx, bookingID, ""); err != nil {
			d.failed("track", bookingID, err)
		}
	}
}

func (d *Dispatcher) failed(op string, bookingID uint, err error) {
	metrics.IncCalendarSyncFailed(op)
	d.log.Warn("calendar sync failed",
		zap.String("op", op),
		zap.Uint("booking_id", bookingID),
		zap.Error(err),
	)
}

// Publisher is what the booking use cases need from the dispatcher.
type Publisher interface {
	Sync(b *models.Booking)
	Remove(bookingID uint, externalID string)
}

var _ Publisher = (*Dispatcher)(nil)
