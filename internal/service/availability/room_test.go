package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	roomBookings      []*domain.Booking
	equipmentBookings []*domain.Booking
	err               error

	lastRoomFilter      domain.RoomBookingsFilter
	lastEquipmentFilter domain.EquipmentBookingsFilter
}

func (f *fakeBookingRepo) GetActiveForRoom(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error) {
	f.lastRoomFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.roomBookings, nil
}

func (f *fakeBookingRepo) GetActiveForEquipment(ctx context.Context, filter domain.EquipmentBookingsFilter) ([]*domain.Booking, error) {
	f.lastEquipmentFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.equipmentBookings, nil
}

func ts(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func booking(id int64, start, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		RoomID:    1,
		StartTime: start,
		EndTime:   end,
		Status:    domain.StatusApproved,
	}
}

func TestRoomChecker_IsRoomFree_NoBookings(t *testing.T) {
	repo := &fakeBookingRepo{}
	checker := NewRoomChecker(repo, nopLogger{})

	free, err := checker.IsRoomFree(context.Background(), 1, domain.NewInterval(ts(9, 0), ts(10, 0)), nil, nil)
	require.NoError(t, err)
	assert.True(t, free)
	assert.Equal(t, int64(1), repo.lastRoomFilter.RoomID)
}

func TestRoomChecker_IsRoomFree_OverlappingBooking(t *testing.T) {
	repo := &fakeBookingRepo{
		roomBookings: []*domain.Booking{booking(42, ts(9, 30), ts(10, 30))},
	}
	checker := NewRoomChecker(repo, nopLogger{})

	free, err := checker.IsRoomFree(context.Background(), 1, domain.NewInterval(ts(9, 0), ts(10, 0)), nil, nil)
	require.NoError(t, err)
	assert.False(t, free)
}

func TestRoomChecker_IsRoomFree_TouchingBoundaryIsFree(t *testing.T) {
	// Существующее бронирование заканчивается ровно там, где начинается
	// запрошенное окно: полуоткрытые интервалы не пересекаются
	repo := &fakeBookingRepo{
		roomBookings: []*domain.Booking{booking(42, ts(8, 0), ts(9, 0))},
	}
	checker := NewRoomChecker(repo, nopLogger{})

	free, err := checker.IsRoomFree(context.Background(), 1, domain.NewInterval(ts(9, 0), ts(10, 0)), nil, nil)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestRoomChecker_IsRoomFree_InvalidWindow(t *testing.T) {
	checker := NewRoomChecker(&fakeBookingRepo{}, nopLogger{})

	_, err := checker.IsRoomFree(context.Background(), 1, domain.NewInterval(ts(10, 0), ts(9, 0)), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = checker.IsRoomFree(context.Background(), 1, domain.NewInterval(ts(9, 0), ts(9, 0)), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestRoomChecker_IsRoomFree_RepositoryError(t *testing.T) {
	repo := &fakeBookingRepo{err: errors.New("boom")}
	checker := NewRoomChecker(repo, nopLogger{})

	_, err := checker.IsRoomFree(context.Background(), 1, domain.NewInterval(ts(9, 0), ts(10, 0)), nil, nil)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestRoomChecker_IsRoomFree_PassesFilterThrough(t *testing.T) {
	repo := &fakeBookingRepo{}
	checker := NewRoomChecker(repo, nopLogger{})

	exclude := int64(7)
	statuses := []domain.BookingStatus{domain.StatusApproved}

	_, err := checker.IsRoomFree(context.Background(), 3, domain.NewInterval(ts(9, 0), ts(10, 0)), statuses, &exclude)
	require.NoError(t, err)

	assert.Equal(t, int64(3), repo.lastRoomFilter.RoomID)
	assert.Equal(t, statuses, repo.lastRoomFilter.Statuses)
	require.NotNil(t, repo.lastRoomFilter.ExcludeBookingID)
	assert.Equal(t, exclude, *repo.lastRoomFilter.ExcludeBookingID)
}
