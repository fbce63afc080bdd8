package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"sharehub/internal/database"
	"sharehub/internal/domain"
	"sharehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service      *Service
	places       *repository.PlaceRepository
	reservations *repository.ReservationRepository
	place        domain.Place
	user         domain.User
	other        domain.User
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect("file::memory:?cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	// one connection: transactions against the shared in-memory DB serialize
	// the same way the place row lock does on PostgreSQL
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	placeRepo := repository.NewPlaceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	f := &fixture{
		service:      NewService(reservationRepo, placeRepo, nil),
		places:       placeRepo,
		reservations: reservationRepo,
	}

	f.user = domain.User{Email: fmt.Sprintf("u-%d@test.local", time.Now().UnixNano()), Name: "User", Role: domain.RoleUser}
	require.NoError(t, db.Create(&f.user).Error)
	f.other = domain.User{Email: fmt.Sprintf("o-%d@test.local", time.Now().UnixNano()), Name: "Other", Role: domain.RoleUser}
	require.NoError(t, db.Create(&f.other).Error)

	f.place = domain.Place{OwnerID: f.user.ID, Name: "Desk 1", IsAvailable: true}
	require.NoError(t, placeRepo.Create(context.Background(), &f.place))

	return f
}

func actorFor(u domain.User) domain.Actor {
	return domain.Actor{UserID: u.ID, Role: u.Role}
}

func slot(hour int) time.Time {
	return time.Date(2026, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestBook_Success(t *testing.T) {
	f := setup(t)

	res, err := f.service.Book(context.Background(), actorFor(f.user), CreateReservationRequest{
		PlaceID:   f.place.ID,
		StartTime: slot(10),
		EndTime:   slot(11),
	})

	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, domain.ReservationActive, res.Status)
	assert.Equal(t, f.user.ID, res.UserID)
}

func TestBook_InvalidRange(t *testing.T) {
	f := setup(t)

	_, err := f.service.Book(context.Background(), actorFor(f.user), CreateReservationRequest{
		PlaceID:   f.place.ID,
		StartTime: slot(11),
		EndTime:   slot(10),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	// zero-length is invalid too
	_, err = f.service.Book(context.Background(), actorFor(f.user), CreateReservationRequest{
		PlaceID:   f.place.ID,
		StartTime: slot(10),
		EndTime:   slot(10),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestBook_PlaceNotFound(t *testing.T) {
	f := setup(t)

	_, err := f.service.Book(context.Background(), actorFor(f.user), CreateReservationRequest{
		PlaceID:   99999,
		StartTime: slot(10),
		EndTime:   slot(11),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBook_OverlapRejected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	_, err = f.service.Book(ctx, actorFor(f.other), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10).Add(30 * time.Minute), EndTime: slot(11).Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, ErrScheduleConflict)
}

func TestBook_TouchingRangesBothSucceed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	_, err = f.service.Book(ctx, actorFor(f.other), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(11), EndTime: slot(12),
	})
	assert.NoError(t, err)
}

func TestBook_OtherPlaceUnaffected(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	second := domain.Place{OwnerID: f.user.ID, Name: "Desk 2", IsAvailable: true}
	require.NoError(t, f.places.Create(ctx, &second))

	_, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	// same range, different place: no conflict
	_, err = f.service.Book(ctx, actorFor(f.other), CreateReservationRequest{
		PlaceID: second.ID, StartTime: slot(10), EndTime: slot(11),
	})
	assert.NoError(t, err)
}

func TestCancel_OwnerAndState(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	// a stranger may not cancel
	_, err = f.service.Cancel(ctx, actorFor(f.other), res.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := f.service.Cancel(ctx, actorFor(f.user), res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, cancelled.Status)

	// cancel is not idempotent
	_, err = f.service.Cancel(ctx, actorFor(f.user), res.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	// history is kept, not deleted
	stored, err := f.reservations.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, stored.Status)
}

func TestCancel_AdminMayCancelAnyones(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	admin := domain.Actor{UserID: f.other.ID, Role: domain.RoleAdmin}
	cancelled, err := f.service.Cancel(ctx, admin, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, cancelled.Status)
}

func TestCancel_NotFound(t *testing.T) {
	f := setup(t)

	_, err := f.service.Cancel(context.Background(), actorFor(f.user), 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelledIntervalIsReusable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, actorFor(f.user), res.ID)
	require.NoError(t, err)

	_, err = f.service.Book(ctx, actorFor(f.other), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	assert.NoError(t, err)
}

func TestMove_Success(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	moved, err := f.service.Move(ctx, actorFor(f.user), res.ID, MoveReservationRequest{
		StartTime: slot(14), EndTime: slot(15),
	})
	require.NoError(t, err)
	assert.Equal(t, slot(14), moved.StartTime.UTC())
	assert.Equal(t, slot(15), moved.EndTime.UTC())
	assert.Equal(t, domain.ReservationActive, moved.Status)
}

func TestMove_SelfOverlapAllowed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(12),
	})
	require.NoError(t, err)

	// the new range overlaps only the reservation being moved
	_, err = f.service.Move(ctx, actorFor(f.user), res.ID, MoveReservationRequest{
		StartTime: slot(11), EndTime: slot(13),
	})
	assert.NoError(t, err)
}

func TestMove_ConflictLeavesReservationUnchanged(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	blocker, err := f.service.Book(ctx, actorFor(f.other), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(14), EndTime: slot(16),
	})
	require.NoError(t, err)
	_ = blocker

	res, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	_, err = f.service.Move(ctx, actorFor(f.user), res.ID, MoveReservationRequest{
		StartTime: slot(15), EndTime: slot(17),
	})
	assert.ErrorIs(t, err, ErrScheduleConflict)

	stored, err := f.reservations.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, slot(10), stored.StartTime.UTC())
	assert.Equal(t, slot(11), stored.EndTime.UTC())
}

func TestMove_InvalidStateAndRange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
		PlaceID: f.place.ID, StartTime: slot(10), EndTime: slot(11),
	})
	require.NoError(t, err)

	_, err = f.service.Move(ctx, actorFor(f.user), res.ID, MoveReservationRequest{
		StartTime: slot(15), EndTime: slot(14),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = f.service.Cancel(ctx, actorFor(f.user), res.ID)
	require.NoError(t, err)

	_, err = f.service.Move(ctx, actorFor(f.user), res.ID, MoveReservationRequest{
		StartTime: slot(14), EndTime: slot(15),
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

// Concurrent overlapping bookings on one place: exactly one wins, and the
// stored state never holds two overlapping active reservations.
func TestBook_ConcurrentOverlap(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Book(ctx, actorFor(f.user), CreateReservationRequest{
				PlaceID:   f.place.ID,
				StartTime: slot(10).Add(time.Duration(i) * 10 * time.Minute),
				EndTime:   slot(12),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrScheduleConflict)
		}
	}
	assert.Equal(t, 1, succeeded)

	active, err := f.reservations.ListActiveByPlace(ctx, f.place.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	// invariant: no two active reservations overlap
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			assert.False(t, active[i].Overlaps(active[j].StartTime, active[j].EndTime))
		}
	}
}
