package exchange

import (
	"context"
	"errors"
	"time"

	"sharehub/internal/domain"
	"sharehub/internal/repository"

	"gorm.io/gorm"
)

// EventSink receives take events for the live availability feed. May be nil.
type EventSink interface {
	BookTaken(b domain.Book)
}

// Service applies the single-take transition: one terminal hand-over per
// book, no reverse. The check and the write run under a row lock on the
// book, so of two concurrent takers exactly one wins.
type Service struct {
	books  *repository.BookRepository
	events EventSink
}

func NewService(books *repository.BookRepository, events EventSink) *Service {
	return &Service{books: books, events: events}
}

func (s *Service) Take(ctx context.Context, actor domain.Actor, bookID int64) (*domain.Book, error) {
	var taken *domain.Book
	err := s.books.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		book, err := s.books.LockByID(ctx, tx, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if book.OwnerID == actor.UserID {
			return ErrSelfTake
		}
		if !book.IsAvailable {
			return ErrAlreadyTaken
		}

		now := time.Now().UTC()
		if err := s.books.MarkTaken(ctx, tx, bookID, actor.UserID, now); err != nil {
			// the guarded update found no available row: someone beat us
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAlreadyTaken
			}
			return err
		}

		book.IsAvailable = false
		book.TakenBy = &actor.UserID
		book.TakenAt = &now
		taken = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.BookTaken(*taken)
	}
	return taken, nil
}
