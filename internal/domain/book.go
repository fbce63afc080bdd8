package domain

import "time"

// Book is the single-take variant of a bookable resource: exactly one
// terminal hand-over, no repeat bookings. IsAvailable mirrors TakenBy and
// flips to false exactly once, on take.
type Book struct {
	ID             int64      `json:"id"`
	OwnerID        int64      `json:"owner_id"`
	Title          string     `json:"title" validate:"required"`
	Author         string     `json:"author" validate:"required"`
	Genre          string     `json:"genre" validate:"required"`
	PublishYear    int        `json:"publish_year" validate:"required"`
	Description    string     `json:"description,omitempty" gorm:"type:text"`
	MeetingAddress string     `json:"meeting_address,omitempty"`
	IsAvailable    bool       `json:"is_available"`
	TakenBy        *int64     `json:"taken_by,omitempty"`
	TakenAt        *time.Time `json:"taken_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CanBeModifiedBy: the owner may edit a book only while nobody has taken it.
func (b *Book) CanBeModifiedBy(userID int64) bool {
	return b.OwnerID == userID && b.IsAvailable
}

func (b *Book) CanBeDeletedBy(userID int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return b.OwnerID == userID && b.IsAvailable
}
