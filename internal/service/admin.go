package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
)

const (
	unknownOwner  = "Unknown Owner"
	unknownUser   = "Unknown User"
	unknownScreen = "Unknown Screen"
	unnamedScreen = "Unnamed Screen"
	unknownCity   = "Unknown City"
)

type AdminProfiles interface {
	ProfileGetter
	List(ctx context.Context) ([]model.Profile, error)
	UpdateRole(ctx context.Context, userID string, role model.Role) error
}

type AdminScreens interface {
	ScreenGetter
	List(ctx context.Context, f model.ScreenFilter) ([]model.Screen, error)
	ToggleActive(ctx context.Context, id string) (bool, error)
}

type AdminBookings interface {
	List(ctx context.Context) ([]model.Booking, error)
	CountByScreen(ctx context.Context, screenID string) (int64, error)
	SetStatus(ctx context.Context, id string, status booking.Status) error
}

type StatsSource interface {
	Admin(ctx context.Context, monthStart time.Time) (model.AdminStats, error)
}

// Admin backs the platform administration dashboard. Related rows are looked
// up one at a time; a failed lookup is replaced by a placeholder instead of
// failing the listing.
type Admin struct {
	log      *slog.Logger
	profiles AdminProfiles
	screens  AdminScreens
	bookings AdminBookings
	stats    StatsSource
	now      func() time.Time
}

func NewAdmin(log *slog.Logger, profiles AdminProfiles, screens AdminScreens, bookings AdminBookings, stats StatsSource) *Admin {
	return &Admin{log: log, profiles: profiles, screens: screens, bookings: bookings, stats: stats, now: time.Now}
}

type AdminScreen struct {
	model.Screen
	OwnerName     string `json:"owner_name"`
	BookingsCount int64  `json:"bookings_count"`
}

type AdminBooking struct {
	model.Booking
	UserName   string `json:"user_name"`
	ScreenName string `json:"screen_name"`
}

// Stats returns platform totals with month figures since the first of the
// current UTC month.
func (a *Admin) Stats(ctx context.Context) (model.AdminStats, error) {
	const op = "service.Admin.Stats"

	n := a.now().UTC()
	month := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC)
	st, err := a.stats.Admin(ctx, month)
	if err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// Users lists profiles whose display name or role contains q.
func (a *Admin) Users(ctx context.Context, q string) ([]model.Profile, error) {
	const op = "service.Admin.Users"

	list, err := a.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]model.Profile, 0, len(list))
	for _, p := range list {
		if matches(q, p.DisplayName, string(p.Role)) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Screens lists every screen with its owner's name and booking count,
// keeping those whose name, city or owner name contains q.
func (a *Admin) Screens(ctx context.Context, q string) ([]AdminScreen, error) {
	const op = "service.Admin.Screens"
	log := a.log.With(slog.String("op", op))

	list, err := a.screens.List(ctx, model.ScreenFilter{Unbounded: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	names := a.nameLookup(ctx, log, unknownOwner)
	out := make([]AdminScreen, 0, len(list))
	for _, s := range list {
		if s.Name == "" {
			s.Name = unnamedScreen
		}
		if s.City == "" {
			s.City = unknownCity
		}
		row := AdminScreen{Screen: s, OwnerName: names(s.OwnerID)}
		if n, err := a.bookings.CountByScreen(ctx, s.ID); err == nil {
			row.BookingsCount = n
		} else {
			log.Warn("booking count failed", slog.String("screen_id", s.ID), sl.Err(err))
		}
		if matches(q, s.Name, s.City, row.OwnerName) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Bookings lists every booking with its user's and screen's names, keeping
// those whose user, screen or status contains q.
func (a *Admin) Bookings(ctx context.Context, q string) ([]AdminBooking, error) {
	const op = "service.Admin.Bookings"
	log := a.log.With(slog.String("op", op))

	list, err := a.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users := a.nameLookup(ctx, log, unknownUser)
	screens := map[string]string{}
	out := make([]AdminBooking, 0, len(list))
	for _, b := range list {
		screenName, ok := screens[b.ScreenID]
		if !ok {
			screenName = unknownScreen
			if s, err := a.screens.GetByID(ctx, b.ScreenID); err == nil {
				screenName = s.Name
			} else {
				log.Warn("screen lookup failed", slog.String("screen_id", b.ScreenID), sl.Err(err))
			}
			screens[b.ScreenID] = screenName
		}
		row := AdminBooking{Booking: b, UserName: users(b.UserID), ScreenName: screenName}
		if matches(q, row.UserName, row.ScreenName, string(b.Status)) {
			out = append(out, row)
		}
	}
	return out, nil
}

// nameLookup returns a memoised profile display name resolver that yields
// fallback when the profile cannot be read.
func (a *Admin) nameLookup(ctx context.Context, log *slog.Logger, fallback string) func(userID string) string {
	cache := map[string]string{}
	return func(userID string) string {
		if name, ok := cache[userID]; ok {
			return name
		}
		name := fallback
		if p, err := a.profiles.GetByUserID(ctx, userID); err == nil && p.DisplayName != "" {
			name = p.DisplayName
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Warn("profile lookup failed", slog.String("user_id", userID), sl.Err(err))
		}
		cache[userID] = name
		return name
	}
}

// SetUserRole overwrites a user's role.
func (a *Admin) SetUserRole(ctx context.Context, userID, role string) error {
	const op = "service.Admin.SetUserRole"

	if userID == "" || !model.IsValidRole(role) {
		return fmt.Errorf("%s: %w", op, ErrInvalidRole)
	}
	if err := a.profiles.UpdateRole(ctx, userID, model.Role(role)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	a.log.Info("user role changed", slog.String("op", op), slog.String("user_id", userID), slog.String("role", role))
	return nil
}

// SetBookingStatus overwrites a booking's status. Any status may be set
// from any other.
func (a *Admin) SetBookingStatus(ctx context.Context, bookingID, status string) error {
	const op = "service.Admin.SetBookingStatus"

	if bookingID == "" || !booking.IsValidStatus(status) {
		return fmt.Errorf("%s: %w", op, ErrInvalidStatus)
	}
	if err := a.bookings.SetStatus(ctx, bookingID, booking.Status(status)); err != nil {
		return fmt.Errorf("%s: %w", op, bookingErr(err))
	}
	a.log.Info("booking status overridden", slog.String("op", op), slog.String("booking_id", bookingID), slog.String("status", status))
	return nil
}

// ToggleScreen flips a screen's active flag and returns the new value.
func (a *Admin) ToggleScreen(ctx context.Context, screenID string) (bool, error) {
	const op = "service.Admin.ToggleScreen"

	active, err := a.screens.ToggleActive(ctx, screenID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, screenErr(err))
	}
	return active, nil
}

// matches reports whether q is empty or a case-insensitive substring of
// any field.
func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
