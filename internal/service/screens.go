package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
)

type ScreenGetter interface {
	GetByID(ctx context.Context, id string) (model.Screen, error)
}

type ScreenStore interface {
	ScreenGetter
	Create(ctx context.Context, s *model.Screen) error
	List(ctx context.Context, f model.ScreenFilter) ([]model.Screen, error)
	Update(ctx context.Context, s model.Screen) error
}

// Screens serves discovery and the screen owner's listing management.
type Screens struct {
	log     *slog.Logger
	screens ScreenStore
}

func NewScreens(log *slog.Logger, screens ScreenStore) *Screens {
	return &Screens{log: log, screens: screens}
}

// ScreenInput is a new listing.
type ScreenInput struct {
	Name              string
	Address           string
	City              string
	Lat, Lng          *float64
	PricePerHour      int64
	AvailabilityStart string
	AvailabilityEnd   string
}

// ScreenPatch updates only the non-nil fields.
type ScreenPatch struct {
	Name              *string
	Address           *string
	City              *string
	Lat, Lng          *float64
	PricePerHour      *int64
	AvailabilityStart *string
	AvailabilityEnd   *string
}

// Discover lists active screens.
func (s *Screens) Discover(ctx context.Context, f model.ScreenFilter) ([]model.Screen, error) {
	const op = "service.Screens.Discover"

	f.ActiveOnly = true
	f.Unbounded = false
	f.OwnerID = ""
	out, err := s.screens.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Get returns a screen by id whether or not it is active.
func (s *Screens) Get(ctx context.Context, id string) (model.Screen, error) {
	const op = "service.Screens.Get"

	sc, err := s.screens.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return sc, fmt.Errorf("%s: %w", op, ErrScreenNotFound)
		}
		return sc, fmt.Errorf("%s: %w", op, err)
	}
	return sc, nil
}

// Slots returns the bookable start times of a screen.
func (s *Screens) Slots(ctx context.Context, id string) ([]string, error) {
	const op = "service.Screens.Slots"

	sc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	slots, err := booking.GenerateSlots(sc.AvailabilityStart, sc.AvailabilityEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return slots, nil
}

// Create lists a new active screen owned by ownerID.
func (s *Screens) Create(ctx context.Context, ownerID string, in ScreenInput) (model.Screen, error) {
	const op = "service.Screens.Create"

	sc := model.Screen{
		OwnerID:           ownerID,
		Name:              strings.TrimSpace(in.Name),
		Address:           strings.TrimSpace(in.Address),
		City:              strings.TrimSpace(in.City),
		Lat:               in.Lat,
		Lng:               in.Lng,
		PricePerHour:      in.PricePerHour,
		AvailabilityStart: in.AvailabilityStart,
		AvailabilityEnd:   in.AvailabilityEnd,
		IsActive:          true,
	}
	if err := validateScreen(sc); err != nil {
		return sc, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.screens.Create(ctx, &sc); err != nil {
		return sc, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("screen listed", slog.String("op", op), slog.String("screen_id", sc.ID), slog.String("owner_id", ownerID))
	return sc, nil
}

// Update applies p to a screen. Only its owner or an admin may edit it.
func (s *Screens) Update(ctx context.Context, actorID string, actorRole model.Role, id string, p ScreenPatch) (model.Screen, error) {
	const op = "service.Screens.Update"

	sc, err := s.Get(ctx, id)
	if err != nil {
		return sc, err
	}
	if sc.OwnerID != actorID && actorRole != model.RoleAdmin {
		return sc, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if p.Name != nil {
		sc.Name = strings.TrimSpace(*p.Name)
	}
	if p.Address != nil {
		sc.Address = strings.TrimSpace(*p.Address)
	}
	if p.City != nil {
		sc.City = strings.TrimSpace(*p.City)
	}
	if p.Lat != nil {
		sc.Lat = p.Lat
	}
	if p.Lng != nil {
		sc.Lng = p.Lng
	}
	if p.PricePerHour != nil {
		sc.PricePerHour = *p.PricePerHour
	}
	if p.AvailabilityStart != nil {
		sc.AvailabilityStart = *p.AvailabilityStart
	}
	if p.AvailabilityEnd != nil {
		sc.AvailabilityEnd = *p.AvailabilityEnd
	}
	if err := validateScreen(sc); err != nil {
		return sc, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.screens.Update(ctx, sc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return sc, fmt.Errorf("%s: %w", op, ErrScreenNotFound)
		}
		return sc, fmt.Errorf("%s: %w", op, err)
	}
	return sc, nil
}

// Owned lists every screen of ownerID, inactive ones included.
func (s *Screens) Owned(ctx context.Context, ownerID string) ([]model.Screen, error) {
	const op = "service.Screens.Owned"

	out, err := s.screens.List(ctx, model.ScreenFilter{OwnerID: ownerID, Unbounded: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func validateScreen(s model.Screen) error {
	if s.Name == "" {
		return fmt.Errorf("%w: screen_name is required", ErrInvalidInput)
	}
	if s.PricePerHour <= 0 {
		return fmt.Errorf("%w: price_per_hour must be positive", ErrInvalidInput)
	}
	if _, err := booking.ParseHour(s.AvailabilityStart); err != nil {
		return fmt.Errorf("%w: availability_start: %w", ErrInvalidInput, err)
	}
	if _, err := booking.ParseHour(s.AvailabilityEnd); err != nil {
		return fmt.Errorf("%w: availability_end: %w", ErrInvalidInput, err)
	}
	return nil
}
