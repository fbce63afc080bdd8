package events

import (
	"time"

	"sharehub/internal/domain"
)

const (
	TypeReservationCreated   = "booking.created"
	TypeReservationCancelled = "booking.cancelled"
	TypeReservationMoved     = "booking.moved"
	TypeBookTaken            = "book.taken"
)

type Event struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// Feed turns reservation/take transitions into broadcast events. It
// satisfies the event sink interfaces of the booking and exchange services.
type Feed struct {
	hub *Hub
}

func NewFeed(hub *Hub) *Feed {
	return &Feed{hub: hub}
}

func (f *Feed) publish(eventType string, payload any) {
	f.hub.Broadcast(Event{
		Type:    eventType,
		At:      time.Now().UTC(),
		Payload: payload,
	})
}

func (f *Feed) ReservationCreated(r domain.Reservation) {
	f.publish(TypeReservationCreated, r)
}

func (f *Feed) ReservationCancelled(r domain.Reservation) {
	f.publish(TypeReservationCancelled, r)
}

func (f *Feed) ReservationMoved(r domain.Reservation) {
	f.publish(TypeReservationMoved, r)
}

func (f *Feed) BookTaken(b domain.Book) {
	f.publish(TypeBookTaken, b)
}
