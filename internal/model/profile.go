package model

import "time"

// Role is a marketplace role stored on a profile.
type Role string

const (
	RoleBroadcaster Role = "broadcaster"
	RoleScreenOwner Role = "screen_owner"
	RoleAdmin       Role = "admin"
)

// Roles lists every assignable role.
var Roles = []Role{RoleBroadcaster, RoleScreenOwner, RoleAdmin}

// IsValidRole reports whether r is one of Roles.
func IsValidRole(r string) bool {
	for _, role := range Roles {
		if string(role) == r {
			return true
		}
	}
	return false
}

// Profile carries the marketplace attributes of a user.
type Profile struct {
	UserID          string    `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	Role            Role      `json:"role"`
	PayoutEnabled   bool      `json:"payout_enabled"`
	StripeAccountID *string   `json:"stripe_account_id,omitempty"`
	TotalEarnings   int64     `json:"total_earnings"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
