package repository

import (
	"context"
	"time"

	"sharehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaceFilters struct {
	Name          string
	Location      string
	AvailableOnly bool
	Limit         int
	Offset        int
}

type PlaceRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

type placeModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id"`
	Name        string    `gorm:"column:name"`
	Location    *string   `gorm:"column:location"`
	Description *string   `gorm:"column:description"`
	IsAvailable bool      `gorm:"column:is_available"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (placeModel) TableName() string { return "places" }

func toDomainPlace(m placeModel) *domain.Place {
	var location, description string
	if m.Location != nil {
		location = *m.Location
	}
	if m.Description != nil {
		description = *m.Description
	}

	return &domain.Place{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Location:    location,
		Description: description,
		IsAvailable: m.IsAvailable,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toPlaceModel(p *domain.Place) placeModel {
	var location, description *string
	if p.Location != "" {
		v := p.Location
		location = &v
	}
	if p.Description != "" {
		v := p.Description
		description = &v
	}

	return placeModel{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Location:    location,
		Description: description,
		IsAvailable: p.IsAvailable,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// GetAll returns places with optional filters
func (r *PlaceRepository) GetAll(ctx context.Context, f PlaceFilters) ([]domain.Place, int64, error) {
	var models []placeModel
	var total int64

	q := r.db.WithContext(ctx).Model(&placeModel{})

	if f.Name != "" {
		q = q.Where("name LIKE ?", "%"+f.Name+"%")
	}
	if f.Location != "" {
		q = q.Where("location LIKE ?", "%"+f.Location+"%")
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("id ASC").Limit(f.Limit).Offset(f.Offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Place, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainPlace(m))
	}
	return out, total, nil
}

func (r *PlaceRepository) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	var m placeModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPlace(m), nil
}

// LockByID takes a FOR UPDATE row lock on the place inside the given
// transaction. Transitions against the same place serialize on this lock;
// different places never block each other.
func (r *PlaceRepository) LockByID(ctx context.Context, tx *gorm.DB, id int64) (*domain.Place, error) {
	var m placeModel
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return toDomainPlace(m), nil
}

func (r *PlaceRepository) Create(ctx context.Context, p *domain.Place) error {
	m := toPlaceModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPlace(m)
	return nil
}

func (r *PlaceRepository) Update(ctx context.Context, p *domain.Place) error {
	m := toPlaceModel(p)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *PlaceRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&placeModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PlaceRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	tx := r.db.WithContext(ctx).Model(&placeModel{}).Where("id = ?", id).
		Update("is_available", available)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PlaceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&placeModel{}).Count(&n).Error
	return n, err
}
