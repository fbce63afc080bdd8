package catalog

import (
	"context"
	"errors"

	"sharehub/internal/domain"
	"sharehub/internal/repository"

	"gorm.io/gorm"
)

// Service manages the catalog of coworking places and offered books.
// Reads are plain filtered queries; writes enforce per-kind ownership rules.
type Service struct {
	places *repository.PlaceRepository
	books  *repository.BookRepository
}

func NewService(places *repository.PlaceRepository, books *repository.BookRepository) *Service {
	return &Service{places: places, books: books}
}

func (s *Service) ListPlaces(ctx context.Context, f repository.PlaceFilters) ([]domain.Place, int64, error) {
	return s.places.GetAll(ctx, f)
}

func (s *Service) GetPlace(ctx context.Context, id int64) (*domain.Place, error) {
	place, err := s.places.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return place, nil
}

func (s *Service) CreatePlace(ctx context.Context, actor domain.Actor, req CreatePlaceRequest) (*domain.Place, error) {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	place := &domain.Place{
		OwnerID:     actor.UserID,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		IsAvailable: available,
	}
	if err := s.places.Create(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// UpdatePlace is admin-only. Books follow owner-based rules instead.
func (s *Service) UpdatePlace(ctx context.Context, actor domain.Actor, id int64, req UpdatePlaceRequest) (*domain.Place, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	place, err := s.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		place.Name = req.Name
	}
	if req.Location != "" {
		place.Location = req.Location
	}
	if req.Description != "" {
		place.Description = req.Description
	}
	if req.IsAvailable != nil {
		place.IsAvailable = *req.IsAvailable
	}

	if err := s.places.Update(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// SetPlaceAvailability flips the open-for-booking flag without touching the
// rest of the record. Existing reservations are unaffected.
func (s *Service) SetPlaceAvailability(ctx context.Context, actor domain.Actor, id int64, available bool) (*domain.Place, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := s.places.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetPlace(ctx, id)
}

func (s *Service) DeletePlace(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.places.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) ListBooks(ctx context.Context, f repository.BookFilters) ([]domain.Book, int64, error) {
	return s.books.GetAll(ctx, f)
}

// ListMyBooks lists the books the user has offered, taken ones included.
func (s *Service) ListMyBooks(ctx context.Context, userID int64, limit, offset int) ([]domain.Book, int64, error) {
	return s.books.GetAll(ctx, repository.BookFilters{OwnerID: userID, Limit: limit, Offset: offset})
}

// ListTakenBooks lists the books the user has taken from others.
func (s *Service) ListTakenBooks(ctx context.Context, userID int64, limit, offset int) ([]domain.Book, int64, error) {
	return s.books.GetAll(ctx, repository.BookFilters{TakenBy: userID, Limit: limit, Offset: offset})
}

func (s *Service) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *Service) CreateBook(ctx context.Context, actor domain.Actor, req CreateBookRequest) (*domain.Book, error) {
	book := &domain.Book{
		OwnerID:        actor.UserID,
		Title:          req.Title,
		Author:         req.Author,
		Genre:          req.Genre,
		PublishYear:    req.PublishYear,
		Description:    req.Description,
		MeetingAddress: req.MeetingAddress,
		IsAvailable:    true,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBook: only the owner, and only while the book has not been taken.
func (s *Service) UpdateBook(ctx context.Context, actor domain.Actor, id int64, req UpdateBookRequest) (*domain.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.CanBeModifiedBy(actor.UserID) {
		return nil, ErrForbidden
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.Genre != "" {
		book.Genre = req.Genre
	}
	if req.PublishYear > 0 {
		book.PublishYear = req.PublishYear
	}
	if req.Description != "" {
		book.Description = req.Description
	}
	if req.MeetingAddress != "" {
		book.MeetingAddress = req.MeetingAddress
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *Service) DeleteBook(ctx context.Context, actor domain.Actor, id int64) error {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if !book.CanBeDeletedBy(actor.UserID, actor.IsAdmin()) {
		return ErrForbidden
	}
	return s.books.Delete(ctx, id)
}
