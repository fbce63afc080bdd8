package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the authenticated identity behind a request, resolved from the
// access token by the auth middleware. State-changing service calls receive
// it explicitly instead of reading ambient request state.
type Actor struct {
	UserID int64
	Role   UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
