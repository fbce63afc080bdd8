package booking

import (
	"time"

	"sharehub/internal/domain"
)

// findOverlap scans the active reservations of one place for an interval
// that overlaps [start, end). Intervals are half-open: a reservation ending
// exactly when another starts does not conflict. excludeID skips the
// reservation being moved so it never conflicts with itself; pass 0 when
// creating. Returns the first conflicting reservation, or nil when the
// range is free.
func findOverlap(existing []domain.Reservation, start, end time.Time, excludeID int64) *domain.Reservation {
	for i := range existing {
		r := &existing[i]
		if r.ID == excludeID {
			continue
		}
		if r.Overlaps(start, end) {
			return r
		}
	}
	return nil
}
