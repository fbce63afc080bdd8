package booking

import "sharehub/internal/domain"

// EventSink receives reservation transitions for the live availability feed.
// May be nil; delivery is best-effort and never fails a transition.
type EventSink interface {
	ReservationCreated(r domain.Reservation)
	ReservationCancelled(r domain.Reservation)
	ReservationMoved(r domain.Reservation)
}
