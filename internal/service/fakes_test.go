package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/payment"
	"github.com/cmarinek/red-square-broadcast/internal/queue"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
)

var fixedNow = time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type memProfiles struct {
	rows map[string]model.Profile
	err  error
}

func (m *memProfiles) GetByUserID(_ context.Context, id string) (model.Profile, error) {
	if m.err != nil {
		return model.Profile{}, m.err
	}
	p, ok := m.rows[id]
	if !ok {
		return p, repository.ErrNotFound
	}
	return p, nil
}

func (m *memProfiles) List(context.Context) ([]model.Profile, error) {
	out := make([]model.Profile, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProfiles) UpdateRole(_ context.Context, id string, role model.Role) error {
	p, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Role = role
	m.rows[id] = p
	return nil
}

type memScreens struct {
	mu      sync.Mutex
	rows    map[string]model.Screen
	seq     int
	filters []model.ScreenFilter
}

func newMemScreens(s ...model.Screen) *memScreens {
	m := &memScreens{rows: map[string]model.Screen{}}
	for _, x := range s {
		m.rows[x.ID] = x
	}
	return m
}

func (m *memScreens) GetByID(_ context.Context, id string) (model.Screen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return s, repository.ErrNotFound
	}
	return s, nil
}

func (m *memScreens) Create(_ context.Context, s *model.Screen) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.ID = fmt.Sprintf("scr-%d", m.seq)
	m.rows[s.ID] = *s
	return nil
}

func (m *memScreens) List(_ context.Context, f model.ScreenFilter) ([]model.Screen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = append(m.filters, f)
	var out []model.Screen
	for _, s := range m.rows {
		if f.ActiveOnly && !s.IsActive {
			continue
		}
		if f.OwnerID != "" && s.OwnerID != f.OwnerID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memScreens) Update(_ context.Context, s model.Screen) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[s.ID] = s
	return nil
}

func (m *memScreens) ToggleActive(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	s.IsActive = !s.IsActive
	m.rows[id] = s
	return s.IsActive, nil
}

func (m *memScreens) CountByOwner(_ context.Context, owner string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.rows {
		if s.OwnerID == owner {
			n++
		}
	}
	return n, nil
}

type memContents struct {
	rows map[string]model.ContentUpload
}

func (m *memContents) GetByID(_ context.Context, id string) (model.ContentUpload, error) {
	c, ok := m.rows[id]
	if !ok {
		return c, repository.ErrNotFound
	}
	return c, nil
}

func (m *memContents) Create(_ context.Context, c *model.ContentUpload) error {
	if m.rows == nil {
		m.rows = map[string]model.ContentUpload{}
	}
	m.rows[c.ID] = *c
	return nil
}

type memBookings struct {
	mu      sync.Mutex
	rows    map[string]model.Booking
	screens *memScreens
	seq     int
}

func newMemBookings(screens *memScreens) *memBookings {
	return &memBookings{rows: map[string]model.Booking{}, screens: screens}
}

func (m *memBookings) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b.ID = fmt.Sprintf("bk-%d", m.seq)
	b.CreatedAt = fixedNow
	m.rows[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return b, repository.ErrNotFound
	}
	return b, nil
}

func (m *memBookings) GetDetail(ctx context.Context, id string) (model.BookingDetail, error) {
	b, err := m.GetByID(ctx, id)
	if err != nil {
		return model.BookingDetail{}, err
	}
	return m.detail(ctx, b), nil
}

func (m *memBookings) detail(ctx context.Context, b model.Booking) model.BookingDetail {
	d := model.BookingDetail{Booking: b}
	if s, err := m.screens.GetByID(ctx, b.ScreenID); err == nil {
		d.Screen = model.ScreenSummary{Name: s.Name, Address: s.Address, City: s.City}
	}
	return d
}

func (m *memBookings) ListDetailByUser(ctx context.Context, userID string) ([]model.BookingDetail, error) {
	m.mu.Lock()
	var list []model.Booking
	for _, b := range m.rows {
		if b.UserID == userID {
			list = append(list, b)
		}
	}
	m.mu.Unlock()
	var out []model.BookingDetail
	for _, b := range list {
		out = append(out, m.detail(ctx, b))
	}
	return out, nil
}

func (m *memBookings) List(context.Context) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0, len(m.rows))
	for i := 1; i <= m.seq; i++ {
		if b, ok := m.rows[fmt.Sprintf("bk-%d", i)]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) Confirm(_ context.Context, id, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = booking.StatusConfirmed
	b.StripeSessionID = &session
	m.rows[id] = b
	return nil
}

func (m *memBookings) SetStatus(_ context.Context, id string, st booking.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = st
	m.rows[id] = b
	return nil
}

func (m *memBookings) CountByScreen(_ context.Context, screenID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.rows {
		if b.ScreenID == screenID {
			n++
		}
	}
	return n, nil
}

func (m *memBookings) CompleteElapsed(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, b := range m.rows {
		if b.Status != booking.StatusConfirmed {
			continue
		}
		end, err := booking.EndsAt(b.ScheduledDate, b.EndTime)
		if err != nil || end.After(now) {
			continue
		}
		b.Status = booking.StatusCompleted
		m.rows[id] = b
		n++
	}
	return n, nil
}

type failingCharger struct{}

func (failingCharger) Name() string { return "failing" }

func (failingCharger) Charge(context.Context, payment.Charge) (payment.Result, error) {
	return payment.Result{}, errors.New("card declined")
}

// hostedCharger opens a checkout page instead of charging in place.
type hostedCharger struct{}

func (hostedCharger) Name() string { return "stripe" }

func (hostedCharger) Charge(_ context.Context, c payment.Charge) (payment.Result, error) {
	return payment.Result{SessionID: "cs_test_" + c.BookingID, RedirectURL: "https://checkout.stripe.com/c/pay/cs_test_" + c.BookingID}, nil
}

// gateCharger holds every charge until release is closed, reporting each
// arrival on arrived.
type gateCharger struct {
	arrived chan struct{}
	release chan struct{}
}

func newGateCharger() *gateCharger {
	return &gateCharger{arrived: make(chan struct{}, 8), release: make(chan struct{})}
}

func (g *gateCharger) Name() string { return "gate" }

func (g *gateCharger) Charge(ctx context.Context, c payment.Charge) (payment.Result, error) {
	g.arrived <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return payment.Result{}, ctx.Err()
	}
	return payment.Result{SessionID: "sim_" + c.BookingID}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type recordingSettler struct {
	got []repository.Settlement
	err error
}

func (s *recordingSettler) Settle(_ context.Context, st repository.Settlement) error {
	s.got = append(s.got, st)
	return s.err
}

func queueEvent(bookingID string) queue.BookingConfirmedEvent {
	return queue.BookingConfirmedEvent{BookingID: bookingID, UserID: "u1", OwnerID: "o1", TotalAmount: 1050, Currency: "usd", SessionID: "sim_1"}
}
