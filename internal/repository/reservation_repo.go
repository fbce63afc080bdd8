package repository

import (
	"context"
	"time"

	"sharehub/internal/domain"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// DB exposes the underlying handle for transaction scopes owned by services.
func (r *ReservationRepository) DB() *gorm.DB { return r.db }

// WithTx returns a repository bound to the given transaction.
func (r *ReservationRepository) WithTx(tx *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: tx}
}

type reservationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	PlaceID   int64     `gorm:"column:place_id"`
	UserID    int64     `gorm:"column:user_id"`
	StartTime time.Time `gorm:"column:start_time"`
	EndTime   time.Time `gorm:"column:end_time"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	return &domain.Reservation{
		ID:        m.ID,
		PlaceID:   m.PlaceID,
		UserID:    m.UserID,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Status:    domain.ReservationStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toReservationModel(res *domain.Reservation) reservationModel {
	return reservationModel{
		ID:        res.ID,
		PlaceID:   res.PlaceID,
		UserID:    res.UserID,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		Status:    string(res.Status),
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	}
}

// ListActiveByPlace returns the active reservations for a place ordered by
// start_time ascending, the order the overlap scan expects.
func (r *ReservationRepository) ListActiveByPlace(ctx context.Context, placeID int64) ([]domain.Reservation, error) {
	var models []reservationModel
	err := r.db.WithContext(ctx).
		Where("place_id = ? AND status = ?", placeID, string(domain.ReservationActive)).
		Order("start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	var models []reservationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) UpdateRange(ctx context.Context, id int64, start, end time.Time) error {
	tx := r.db.WithContext(ctx).Model(&reservationModel{}).Where("id = ?", id).
		Updates(map[string]any{
			"start_time": start,
			"end_time":   end,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReservationRepository) SetStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	tx := r.db.WithContext(ctx).Model(&reservationModel{}).Where("id = ?", id).
		Update("status", string(status))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReservationRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reservationModel{}).
		Where("status = ?", string(domain.ReservationActive)).Count(&n).Error
	return n, err
}
