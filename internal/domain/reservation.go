package domain

import "time"

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is a half-open [StartTime, EndTime) hold on a place.
// Cancelled rows are kept for history and never considered for overlap.
type Reservation struct {
	ID        int64             `json:"id"`
	PlaceID   int64             `json:"place_id" validate:"required"`
	UserID    int64             `json:"user_id" validate:"required"`
	StartTime time.Time         `json:"start_time" validate:"required"`
	EndTime   time.Time         `json:"end_time" validate:"required"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Overlaps reports whether [start, end) shares any instant with the
// reservation's own interval. Touching endpoints do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return start.Before(r.EndTime) && r.StartTime.Before(end)
}
