package model

import "time"

// Screen is a physical digital display listed for booking by a screen owner.
// Bookings reference a screen by id but never own it.
//
// Fields:
//  ID                – primary key (UUID).
//  OwnerID           – user id of the listing screen owner.
//  Name              – display name shown in discovery.
//  Address, City     – street address and city of the display.
//  Lat, Lng          – optional coordinates.
//  PricePerHour      – hourly rate in cents.
//  AvailabilityStart – first bookable time of day (HH:MM).
//  AvailabilityEnd   – end of the bookable window (HH:MM, exclusive).
//  IsActive          – inactive screens are hidden from discovery.
type Screen struct {
	ID                string    `json:"id"`                 // screens.id
	OwnerID           string    `json:"owner_id"`           // screens.owner_id
	Name              string    `json:"screen_name"`        // screens.screen_name
	Address           string    `json:"address"`            // screens.address
	City              string    `json:"city"`               // screens.city
	Lat               *float64  `json:"location_lat"`       // screens.location_lat (nullable)
	Lng               *float64  `json:"location_lng"`       // screens.location_lng (nullable)
	PricePerHour      int64     `json:"price_per_hour"`     // screens.price_per_hour
	AvailabilityStart string    `json:"availability_start"` // screens.availability_start
	AvailabilityEnd   string    `json:"availability_end"`   // screens.availability_end
	IsActive          bool      `json:"is_active"`          // screens.is_active
	CreatedAt         time.Time `json:"created_at"`         // screens.created_at
	UpdatedAt         time.Time `json:"updated_at"`         // screens.updated_at
}

// ScreenFilter narrows a screen listing. Zero values are ignored. Limit is
// clamped for discovery; Unbounded drops it for owner and admin views.
type ScreenFilter struct {
	City       string
	Query      string
	MaxPrice   int64
	OwnerID    string
	ActiveOnly bool
	Limit      int
	Unbounded  bool
}
