package repository

import (
	"context"
	"time"

	"sharehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookFilters struct {
	Title         string
	Author        string
	Genre         string
	PublishYear   int
	AvailableOnly bool
	OwnerID       int64
	TakenBy       int64
	Limit         int
	Offset        int
}

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// DB exposes the underlying handle for transaction scopes owned by services.
func (r *BookRepository) DB() *gorm.DB { return r.db }

type bookModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	OwnerID        int64      `gorm:"column:owner_id"`
	Title          string     `gorm:"column:title"`
	Author         string     `gorm:"column:author"`
	Genre          string     `gorm:"column:genre"`
	PublishYear    int        `gorm:"column:publish_year"`
	Description    *string    `gorm:"column:description"`
	MeetingAddress *string    `gorm:"column:meeting_address"`
	IsAvailable    bool       `gorm:"column:is_available"`
	TakenBy        *int64     `gorm:"column:taken_by"`
	TakenAt        *time.Time `gorm:"column:taken_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (bookModel) TableName() string { return "books" }

func toDomainBook(m bookModel) *domain.Book {
	var description, meetingAddress string
	if m.Description != nil {
		description = *m.Description
	}
	if m.MeetingAddress != nil {
		meetingAddress = *m.MeetingAddress
	}

	return &domain.Book{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Title:          m.Title,
		Author:         m.Author,
		Genre:          m.Genre,
		PublishYear:    m.PublishYear,
		Description:    description,
		MeetingAddress: meetingAddress,
		IsAvailable:    m.IsAvailable,
		TakenBy:        m.TakenBy,
		TakenAt:        m.TakenAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toBookModel(b *domain.Book) bookModel {
	var description, meetingAddress *string
	if b.Description != "" {
		v := b.Description
		description = &v
	}
	if b.MeetingAddress != "" {
		v := b.MeetingAddress
		meetingAddress = &v
	}

	return bookModel{
		ID:             b.ID,
		OwnerID:        b.OwnerID,
		Title:          b.Title,
		Author:         b.Author,
		Genre:          b.Genre,
		PublishYear:    b.PublishYear,
		Description:    description,
		MeetingAddress: meetingAddress,
		IsAvailable:    b.IsAvailable,
		TakenBy:        b.TakenBy,
		TakenAt:        b.TakenAt,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// GetAll returns books with optional filters
func (r *BookRepository) GetAll(ctx context.Context, f BookFilters) ([]domain.Book, int64, error) {
	var models []bookModel
	var total int64

	q := r.db.WithContext(ctx).Model(&bookModel{})

	if f.Title != "" {
		q = q.Where("title LIKE ?", "%"+f.Title+"%")
	}
	if f.Author != "" {
		q = q.Where("author LIKE ?", "%"+f.Author+"%")
	}
	if f.Genre != "" {
		q = q.Where("genre LIKE ?", "%"+f.Genre+"%")
	}
	if f.PublishYear > 0 {
		q = q.Where("publish_year = ?", f.PublishYear)
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if f.OwnerID > 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.TakenBy > 0 {
		q = q.Where("taken_by = ?", f.TakenBy)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("id ASC").Limit(f.Limit).Offset(f.Offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Book, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBook(m))
	}
	return out, total, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	var m bookModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBook(m), nil
}

// LockByID takes a FOR UPDATE row lock on the book inside the given
// transaction, so concurrent takes of the same book serialize.
func (r *BookRepository) LockByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Book, error) {
	var m bookModel
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return toDomainBook(m), nil
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	m := toBookModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBook(m)
	return nil
}

func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	m := toBookModel(b)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&bookModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkTaken flips the terminal take state inside the given transaction.
// The guard on is_available makes the write itself refuse a double take.
func (r *BookRepository) MarkTaken(ctx context.Context, tx *gorm.DB, id, takerID int64, at time.Time) error {
	res := tx.WithContext(ctx).Model(&bookModel{}).
		Where("id = ? AND is_available = ?", id, true).
		Updates(map[string]any{
			"is_available": false,
			"taken_by":     takerID,
			"taken_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&bookModel{}).Count(&n).Error
	return n, err
}

func (r *BookRepository) CountTaken(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&bookModel{}).
		Where("is_available = ?", false).Count(&n).Error
	return n, err
}
