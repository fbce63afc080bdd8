package admin

import (
	"context"
	"errors"

	"sharehub/internal/domain"
	"sharehub/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidRole = errors.New("invalid role")
	ErrSelfDemote  = errors.New("cannot change own role")
)

type Statistics struct {
	Users              int64 `json:"users"`
	Places             int64 `json:"places"`
	Books              int64 `json:"books"`
	BooksTaken         int64 `json:"books_taken"`
	ActiveReservations int64 `json:"active_reservations"`
}

type Service struct {
	users        *repository.UserRepository
	places       *repository.PlaceRepository
	books        *repository.BookRepository
	reservations *repository.ReservationRepository
}

func NewService(
	users *repository.UserRepository,
	places *repository.PlaceRepository,
	books *repository.BookRepository,
	reservations *repository.ReservationRepository,
) *Service {
	return &Service{
		users:        users,
		places:       places,
		books:        books,
		reservations: reservations,
	}
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

func (s *Service) ChangeUserRole(ctx context.Context, actor domain.Actor, userID int64, role domain.UserRole) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, ErrInvalidRole
	}
	if userID == actor.UserID {
		return nil, ErrSelfDemote
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) GetStatistics(ctx context.Context) (*Statistics, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	places, err := s.places.Count(ctx)
	if err != nil {
		return nil, err
	}
	books, err := s.books.Count(ctx)
	if err != nil {
		return nil, err
	}
	taken, err := s.books.CountTaken(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.reservations.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		Users:              users,
		Places:             places,
		Books:              books,
		BooksTaken:         taken,
		ActiveReservations: active,
	}, nil
}
