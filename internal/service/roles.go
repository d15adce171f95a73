package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
)

type ProfileGetter interface {
	GetByUserID(ctx context.Context, userID string) (model.Profile, error)
}

type ScreenCounter interface {
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// Roles resolves the marketplace role of a signed-in user.
type Roles struct {
	log      *slog.Logger
	profiles ProfileGetter
	screens  ScreenCounter
}

func NewRoles(log *slog.Logger, profiles ProfileGetter, screens ScreenCounter) *Roles {
	return &Roles{log: log, profiles: profiles, screens: screens}
}

// Me is what a signed-in user learns about themself.
type Me struct {
	UserID      string     `json:"user_id"`
	Role        model.Role `json:"role"`
	DisplayName string     `json:"display_name"`
	HasScreens  bool       `json:"has_screens"`
}

// Resolve returns the user's role. A missing profile, an unknown role or a
// lookup failure all resolve to broadcaster.
func (r *Roles) Resolve(ctx context.Context, userID string) model.Role {
	const op = "service.Roles.Resolve"

	p, err := r.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			r.log.With(slog.String("op", op)).Warn("profile lookup failed, defaulting role", sl.Err(err))
		}
		return model.RoleBroadcaster
	}
	if !model.IsValidRole(string(p.Role)) {
		return model.RoleBroadcaster
	}
	return p.Role
}

// Me combines the resolved role with the profile name and whether the user
// owns any screens. Lookup failures degrade to empty values.
func (r *Roles) Me(ctx context.Context, userID string) Me {
	const op = "service.Roles.Me"
	log := r.log.With(slog.String("op", op), slog.String("user_id", userID))

	me := Me{UserID: userID, Role: model.RoleBroadcaster}
	if p, err := r.profiles.GetByUserID(ctx, userID); err == nil {
		me.DisplayName = p.DisplayName
		if model.IsValidRole(string(p.Role)) {
			me.Role = p.Role
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Warn("profile lookup failed", sl.Err(err))
	}
	n, err := r.screens.CountByOwner(ctx, userID)
	if err != nil {
		log.Warn("screen count failed", sl.Err(err))
	}
	me.HasScreens = n > 0
	return me
}
