package booking

import (
	"context"
	"errors"

	"sharehub/internal/domain"
	"sharehub/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Service is the transition engine for ranged reservations. Every
// state-changing call runs inside a transaction that first takes a row lock
// on the place, so check-then-write sequences against the same place are
// strictly ordered while different places proceed in parallel.
type Service struct {
	reservations *repository.ReservationRepository
	places       *repository.PlaceRepository
	events       EventSink
}

func NewService(
	reservations *repository.ReservationRepository,
	places *repository.PlaceRepository,
	events EventSink,
) *Service {
	return &Service{
		reservations: reservations,
		places:       places,
		events:       events,
	}
}

func (s *Service) Book(ctx context.Context, actor domain.Actor, req CreateReservationRequest) (*domain.Reservation, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidRange
	}

	var created *domain.Reservation
	err := s.reservations.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.places.LockByID(ctx, tx, req.PlaceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		store := s.reservations.WithTx(tx)
		active, err := store.ListActiveByPlace(ctx, req.PlaceID)
		if err != nil {
			return err
		}
		if conflict := findOverlap(active, req.StartTime, req.EndTime, 0); conflict != nil {
			return ErrScheduleConflict
		}

		res := &domain.Reservation{
			PlaceID:   req.PlaceID,
			UserID:    actor.UserID,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    domain.ReservationActive,
		}
		if err := store.Create(ctx, res); err != nil {
			return mapConstraintError(err)
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.ReservationCreated(*created)
	}
	return created, nil
}

// Cancel flips an active reservation to cancelled. Only the requester or an
// admin may cancel; cancelling anything but an active reservation fails.
// History is kept, the row is never deleted.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, reservationID int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var cancelled *domain.Reservation
	err = s.reservations.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.places.LockByID(ctx, tx, res.PlaceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		store := s.reservations.WithTx(tx)
		current, err := store.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if current.UserID != actor.UserID && !actor.IsAdmin() {
			return ErrForbidden
		}
		if current.Status != domain.ReservationActive {
			return ErrInvalidState
		}

		if err := store.SetStatus(ctx, reservationID, domain.ReservationCancelled); err != nil {
			return err
		}
		current.Status = domain.ReservationCancelled
		cancelled = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.ReservationCancelled(*cancelled)
	}
	return cancelled, nil
}

// Move replaces the interval of an active reservation after re-running the
// overlap check against all other active reservations for the place. On
// conflict the reservation is left untouched.
func (s *Service) Move(ctx context.Context, actor domain.Actor, reservationID int64, req MoveReservationRequest) (*domain.Reservation, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidRange
	}

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var moved *domain.Reservation
	err = s.reservations.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.places.LockByID(ctx, tx, res.PlaceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		store := s.reservations.WithTx(tx)
		current, err := store.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if current.UserID != actor.UserID && !actor.IsAdmin() {
			return ErrForbidden
		}
		if current.Status != domain.ReservationActive {
			return ErrInvalidState
		}

		active, err := store.ListActiveByPlace(ctx, current.PlaceID)
		if err != nil {
			return err
		}
		if conflict := findOverlap(active, req.StartTime, req.EndTime, reservationID); conflict != nil {
			return ErrScheduleConflict
		}

		if err := store.UpdateRange(ctx, reservationID, req.StartTime, req.EndTime); err != nil {
			return mapConstraintError(err)
		}
		current.StartTime = req.StartTime
		current.EndTime = req.EndTime
		moved = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.ReservationMoved(*moved)
	}
	return moved, nil
}

func (s *Service) GetMyReservations(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) GetActiveByPlace(ctx context.Context, placeID int64) ([]domain.Reservation, error) {
	if _, err := s.places.GetByID(ctx, placeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.reservations.ListActiveByPlace(ctx, placeID)
}

// mapConstraintError turns a violation of the idx_no_overbooking exclusion
// constraint into the conflict error. The constraint only fires when a race
// slips past the in-transaction check, e.g. on a dialect without row locks.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if (pgErr.Code == "23P01" || pgErr.Code == "23505") && pgErr.ConstraintName == "idx_no_overbooking" {
			return ErrScheduleConflict
		}
	}
	return err
}
