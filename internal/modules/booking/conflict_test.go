package booking

import (
	"testing"
	"time"

	"sharehub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func res(id int64, start, end time.Time) domain.Reservation {
	return domain.Reservation{
		ID:        id,
		PlaceID:   1,
		UserID:    1,
		StartTime: start,
		EndTime:   end,
		Status:    domain.ReservationActive,
	}
}

func at(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
}

func TestFindOverlap_EmptyList(t *testing.T) {
	assert.Nil(t, findOverlap(nil, at(10), at(11), 0))
	assert.Nil(t, findOverlap([]domain.Reservation{}, at(10), at(11), 0))
}

func TestFindOverlap_Overlapping(t *testing.T) {
	existing := []domain.Reservation{res(1, at(10), at(11))}

	conflict := findOverlap(existing, at(10).Add(30*time.Minute), at(11).Add(30*time.Minute), 0)
	assert.NotNil(t, conflict)
	assert.Equal(t, int64(1), conflict.ID)
}

func TestFindOverlap_Contained(t *testing.T) {
	existing := []domain.Reservation{res(1, at(9), at(17))}

	assert.NotNil(t, findOverlap(existing, at(12), at(13), 0))
}

func TestFindOverlap_TouchingBoundaryIsNotConflict(t *testing.T) {
	existing := []domain.Reservation{res(1, at(10), at(11))}

	// [11, 12) starts exactly when [10, 11) ends: half-open, no overlap
	assert.Nil(t, findOverlap(existing, at(11), at(12), 0))
	// and the mirror case, ending exactly at the existing start
	assert.Nil(t, findOverlap(existing, at(9), at(10), 0))
}

func TestFindOverlap_ExcludesSelf(t *testing.T) {
	existing := []domain.Reservation{res(7, at(10), at(12))}

	// moving reservation 7 to a range that only overlaps itself is fine
	assert.Nil(t, findOverlap(existing, at(11), at(13), 7))
	// but without the exclusion the same range conflicts
	assert.NotNil(t, findOverlap(existing, at(11), at(13), 0))
}

func TestFindOverlap_ReturnsFirstConflict(t *testing.T) {
	existing := []domain.Reservation{
		res(1, at(8), at(9)),
		res(2, at(10), at(11)),
		res(3, at(11), at(12)),
	}

	conflict := findOverlap(existing, at(10).Add(30*time.Minute), at(11).Add(30*time.Minute), 0)
	assert.NotNil(t, conflict)
	assert.Equal(t, int64(2), conflict.ID)
}
