package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ═══════════════════════════════════════════════════════════
// In-memory store
// ═══════════════════════════════════════════════════════════

type fakeStore struct {
	rules      map[int]models.ScheduleRule
	blocks     []models.Block
	procedures map[uint]models.Procedure
	bookings   map[uint]models.Booking
	nextID     uint
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		rules:      make(map[int]models.ScheduleRule, len(s.rules)),
		blocks:     append([]models.Block(nil), s.blocks...),
		procedures: make(map[uint]models.Procedure, len(s.procedures)),
		bookings:   make(map[uint]models.Booking, len(s.bookings)),
		nextID:     s.nextID,
	}
	for k, v := range s.rules {
		c.rules[k] = v
	}
	for k, v := range s.procedures {
		c.procedures[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	return c
}

// fakeRepo mirrors the Postgres contract: Transaction runs one writer at a
// time on a private copy that is published on success, and an active
// booking may not share (date, time) with another one.
type fakeRepo struct {
	mu    sync.Mutex
	state atomic.Pointer[fakeStore]
	tx    *fakeStore

	now func() time.Time

	// hideActive makes the in-transaction scan miss existing bookings, as
	// when another writer commits between scan and insert.
	hideActive bool
}

func newFakeRepo() *fakeRepo {
	r := &fakeRepo{now: time.Now}
	r.state.Store(&fakeStore{
		rules:      map[int]models.ScheduleRule{},
		procedures: map[uint]models.Procedure{},
		bookings:   map[uint]models.Booking{},
		nextID:     1,
	})
	return r
}

func (r *fakeRepo) store() *fakeStore {
	if r.tx != nil {
		return r.tx
	}
	return r.state.Load()
}

func (r *fakeRepo) write(ctx context.Context, fn func(tx domain.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	return r.Transaction(ctx, fn)
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	txRepo := &fakeRepo{tx: r.state.Load().clone(), now: r.now, hideActive: r.hideActive}
	if err := fn(txRepo); err != nil {
		return err
	}
	r.state.Store(txRepo.tx)
	return nil
}

func (r *fakeRepo) LockDate(context.Context, string) error { return nil }

func (r *fakeRepo) LockProcedure(ctx context.Context, id uint) (*models.Procedure, error) {
	return r.GetProcedure(ctx, id)
}

func (r *fakeRepo) GetProcedure(_ context.Context, id uint) (*models.Procedure, error) {
	p, ok := r.store().procedures[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (r *fakeRepo) CountPromoUsage(_ context.Context, procedureID uint, fromDate string) (int64, error) {
	var n int64
	for _, b := range r.store().bookings {
		if b.ProcedureID != procedureID || b.Status == string(domain.StatusCancelled) {
			continue
		}
		if fromDate != "" && b.AppointmentDate < fromDate {
			continue
		}
		n++
	}
	return n, nil
}

func (r *fakeRepo) GetScheduleRule(_ context.Context, weekday int) (*models.ScheduleRule, error) {
	rule, ok := r.store().rules[weekday]
	if !ok {
		return nil, nil
	}
	return &rule, nil
}

func (r *fakeRepo) ListBlocksForDate(_ context.Context, date string) ([]models.Block, error) {
	var out []models.Block
	for _, b := range r.store().blocks {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListActiveBookingsForDate(_ context.Context, date string) ([]models.Booking, error) {
	if r.hideActive && r.tx != nil {
		return nil, nil
	}
	var out []models.Booking
	for _, b := range r.sorted() {
		if b.AppointmentDate == date && b.Status != string(domain.StatusCancelled) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return r.write(ctx, func(tx domain.Repository) error {
		st := tx.(*fakeRepo).tx
		if taken(st, b) {
			return httperr.ErrConflict(httperr.CodeSlotTakenConcurrency)
		}
		b.ID = st.nextID
		st.nextID++
		b.CreatedAt = r.now()
		b.UpdatedAt = b.CreatedAt
		st.bookings[b.ID] = *b
		return nil
	})
}

func (r *fakeRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	b, ok := r.store().bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &b, nil
}

func (r *fakeRepo) GetBookingForUpdate(ctx context.Context, id uint) (*models.Booking, error) {
	return r.GetBooking(ctx, id)
}

func (r *fakeRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return r.write(ctx, func(tx domain.Repository) error {
		st := tx.(*fakeRepo).tx
		if taken(st, b) {
			return httperr.ErrConflict(httperr.CodeSlotTakenConcurrency)
		}
		b.UpdatedAt = r.now()
		st.bookings[b.ID] = *b
		return nil
	})
}

func (r *fakeRepo) DeleteBooking(ctx context.Context, id uint) error {
	return r.write(ctx, func(tx domain.Repository) error {
		st := tx.(*fakeRepo).tx
		if _, ok := st.bookings[id]; !ok {
			return models.ErrNotFound
		}
		delete(st.bookings, id)
		return nil
	})
}

func (r *fakeRepo) SetExternalCalendarID(ctx context.Context, id uint, externalID string) error {
	return r.write(ctx, func(tx domain.Repository) error {
		st := tx.(*fakeRepo).tx
		if b, ok := st.bookings[id]; ok {
			b.ExternalCalendarID = externalID
			st.bookings[id] = b
		}
		return nil
	})
}

func (r *fakeRepo) ListBookingsForPeriod(_ context.Context, fromDate, toDate string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.sorted() {
		if b.AppointmentDate >= fromDate && b.AppointmentDate <= toDate {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBookingsForUser(_ context.Context, userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.sorted() {
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) sorted() []models.Booking {
	st := r.store()
	out := make([]models.Booking, 0, len(st.bookings))
	for _, b := range st.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out
}

// taken is the partial unique index on (appointment_date, appointment_time).
func taken(st *fakeStore, b *models.Booking) bool {
	if b.Status == string(domain.StatusCancelled) {
		return false
	}
	for id, other := range st.bookings {
		if id != b.ID &&
			other.Status != string(domain.StatusCancelled) &&
			other.AppointmentDate == b.AppointmentDate &&
			other.AppointmentTime == b.AppointmentTime {
			return true
		}
	}
	return false
}

var _ domain.Repository = (*fakeRepo)(nil)

// ═══════════════════════════════════════════════════════════
// Seed helpers
// ═══════════════════════════════════════════════════════════

func (r *fakeRepo) seed(fn func(st *fakeStore)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state.Load().clone()
	fn(st)
	r.state.Store(st)
}

func (r *fakeRepo) addBooking(b models.Booking) uint {
	var id uint
	r.seed(func(st *fakeStore) {
		id = st.nextID
		st.nextID++
		b.ID = id
		if b.CreatedAt.IsZero() {
			b.CreatedAt = r.now()
		}
		st.bookings[id] = b
	})
	return id
}

func (r *fakeRepo) booking(id uint) models.Booking {
	return r.state.Load().bookings[id]
}

func (r *fakeRepo) activeBookings() []models.Booking {
	var out []models.Booking
	for _, b := range r.sorted() {
		if b.Status != string(domain.StatusCancelled) {
			out = append(out, b)
		}
	}
	return out
}

// ═══════════════════════════════════════════════════════════
// Side-channel fakes
// ═══════════════════════════════════════════════════════════

type publishCall struct {
	op         string
	bookingID  uint
	status     string
	externalID string
}

type fakePublisher struct {
	mu    sync.Mutex
	calls []publishCall
}

func (p *fakePublisher) Sync(b *models.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, publishCall{op: "sync", bookingID: b.ID, status: b.Status, externalID: b.ExternalCalendarID})
}

func (p *fakePublisher) Remove(bookingID uint, externalID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, publishCall{op: "remove", bookingID: bookingID, externalID: externalID})
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeRecorder) Dispatch(ev audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeRecorder) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Action)
	}
	return out
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]schedule.Availability
	versions    map[string]int
	gets        int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]schedule.Availability{}, versions: map[string]int{}}
}

func (c *fakeCache) stamp(k schedule.SnapshotKey) string {
	return fmt.Sprintf("%s|v%d|p%d|x%d", k.Date, c.versions[k.Date], k.ProcedureID, k.ExcludeID)
}

func (c *fakeCache) Get(_ context.Context, k schedule.SnapshotKey) (*schedule.Availability, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	s := c.stamp(k)
	if a, ok := c.entries[s]; ok {
		return &a, s, nil
	}
	return nil, s, nil
}

func (c *fakeCache) Put(_ context.Context, stamp string, a schedule.Availability) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[stamp] = a
	return nil
}

func (c *fakeCache) InvalidateDate(_ context.Context, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[date]++
	c.invalidated = append(c.invalidated, date)
	return nil
}

func (c *fakeCache) InvalidateAll(context.Context) error { return nil }

// ═══════════════════════════════════════════════════════════
// Fixture
// ═══════════════════════════════════════════════════════════

var brt = time.FixedZone("BRT", -3*3600)

const (
	today    = "2026-10-15" // quinta-feira
	tomorrow = "2026-10-16"
	sunday   = "2026-10-18"

	regularProcedure = uint(1)
	promoProcedure   = uint(2)
)

type fixture struct {
	repo      *fakeRepo
	clock     *timezone.Clock
	publisher *fakePublisher
	recorder  *fakeRecorder
	cache     *fakeCache
}

// newFixture opens Monday to Saturday 09:00-18:00 with lunch 12:00-13:00;
// Sunday has an inactive rule. Now is today 10:00.
func newFixture() *fixture {
	repo := newFakeRepo()
	repo.seed(func(st *fakeStore) {
		for wd := 0; wd <= 6; wd++ {
			st.rules[wd] = models.ScheduleRule{
				Weekday:    wd,
				StartTime:  "09:00",
				EndTime:    "18:00",
				LunchStart: "12:00",
				LunchEnd:   "13:00",
				IsActive:   wd != 0,
			}
		}

		st.procedures[regularProcedure] = models.Procedure{
			ID:              regularProcedure,
			Name:            "Massagem",
			DurationMinutes: 45,
			Price:           decimal.RequireFromString("100.00"),
			Active:          true,
		}

		start, end, slots := "2026-10-01", "2026-10-31", 2
		st.procedures[promoProcedure] = models.Procedure{
			ID:              promoProcedure,
			Name:            "Limpeza de pele",
			DurationMinutes: 30,
			Price:           decimal.RequireFromString("150.00"),
			Active:          true,
			PromoPrice:      decimal.NewNullDecimal(decimal.RequireFromString("99.90")),
			PromoStartDate:  &start,
			PromoEndDate:    &end,
			PromoSlots:      &slots,
			PromoType:       models.PromoDiscount,
		}
	})

	clock := timezone.NewFixedClock(brt, time.Date(2026, 10, 15, 10, 0, 0, 0, brt))
	repo.now = clock.Now

	return &fixture{
		repo:      repo,
		clock:     clock,
		publisher: &fakePublisher{},
		recorder:  &fakeRecorder{},
		cache:     newFakeCache(),
	}
}
