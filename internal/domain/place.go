package domain

import "time"

// Place is a bookable coworking spot. IsAvailable is the admin-managed
// "open for booking" flag; whether a given time range is free is decided
// against the active reservations, not this flag.
type Place struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name" validate:"required"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
