package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	booking       *domain.Booking
	bookings      []*domain.Booking
	progressErr   error
	progressCalls int
	lastFrom      domain.BookingStatus
	lastTo        domain.BookingStatus
	lastStatus    *domain.BookingStatus
	lastFilter    domain.RoomBookingsFilter
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetByRequesterID(ctx context.Context, requesterID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	f.lastStatus = status
	return f.bookings, nil
}

func (f *fakeBookingRepo) GetActiveForRoom(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	return f.bookings, nil
}

func (f *fakeBookingRepo) UpdateProgress(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	f.progressCalls++
	if f.progressErr != nil {
		return f.progressErr
	}
	f.lastFrom = from
	f.lastTo = to
	f.booking.Status = to
	return nil
}

type fakeAuthorizer struct {
	allowed bool
	err     error
}

func (f *fakeAuthorizer) CanApprove(ctx context.Context, userID int64) (bool, error) {
	return f.allowed, f.err
}

func ts(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
}

func booking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		RequesterID: 100,
		RoomID:      1,
		StartTime:   ts(9),
		EndTime:     ts(11),
		Purpose:     "lecture",
		Status:      status,
	}
}

func TestGetByID_RequesterSeesOwnBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusPending)}
	svc := NewService(repo, &fakeAuthorizer{}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, 100)
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestGetByID_ApproverSeesForeignBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusPending)}
	svc := NewService(repo, &fakeAuthorizer{allowed: true}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusPending)}
	svc := NewService(repo, &fakeAuthorizer{allowed: false}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakeAuthorizer{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 404, 100)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings_FiltersByStatus(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{booking(1, domain.StatusApproved)}}
	svc := NewService(repo, &fakeAuthorizer{}, nopLogger{})

	status := "approved"
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 100, Status: &status})
	require.NoError(t, err)

	assert.Len(t, resp.Bookings, 1)
	require.NotNil(t, repo.lastStatus)
	assert.Equal(t, domain.StatusApproved, *repo.lastStatus)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakeAuthorizer{}, nopLogger{})

	status := "archived"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 100, Status: &status})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetRoomBookings_RequiresApproveCapability(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakeAuthorizer{allowed: false}, nopLogger{})

	_, err := svc.GetRoomBookings(context.Background(), &models.GetRoomBookingsRequest{
		UserID:    7,
		RoomID:    1,
		StartTime: ts(9),
		EndTime:   ts(11),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetRoomBookings_DefaultsToActiveStatuses(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{booking(1, domain.StatusPending)}}
	svc := NewService(repo, &fakeAuthorizer{allowed: true}, nopLogger{})

	resp, err := svc.GetRoomBookings(context.Background(), &models.GetRoomBookingsRequest{
		UserID:    7,
		RoomID:    1,
		StartTime: ts(9),
		EndTime:   ts(11),
	})
	require.NoError(t, err)

	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), repo.lastFilter.RoomID)
	assert.Equal(t, domain.ActiveStatuses, repo.lastFilter.Statuses)
}

func TestGetRoomBookings_InvalidWindow(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakeAuthorizer{allowed: true}, nopLogger{})

	_, err := svc.GetRoomBookings(context.Background(), &models.GetRoomBookingsRequest{
		UserID:    7,
		RoomID:    1,
		StartTime: ts(11),
		EndTime:   ts(9),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProgress_StartsApprovedBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusApproved)}
	svc := NewService(repo, &fakeAuthorizer{allowed: true}, nopLogger{})

	resp, err := svc.UpdateProgress(context.Background(), 1, &models.UpdateProgressRequest{
		UserID: 7,
		Status: "in_progress",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusInProgress), resp.Status)
	assert.Equal(t, domain.StatusApproved, repo.lastFrom)
	assert.Equal(t, domain.StatusInProgress, repo.lastTo)
}

func TestUpdateProgress_CompletesRunningBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusInProgress)}
	svc := NewService(repo, &fakeAuthorizer{allowed: true}, nopLogger{})

	resp, err := svc.UpdateProgress(context.Background(), 1, &models.UpdateProgressRequest{
		UserID: 7,
		Status: "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
}

func TestUpdateProgress_RejectsNonProgressTarget(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusPending)}
	svc := NewService(repo, &fakeAuthorizer{allowed: true}, nopLogger{})

	for _, status := range []string{"approved", "rejected", "cancelled", "pending"} {
		_, err := svc.UpdateProgress(context.Background(), 1, &models.UpdateProgressRequest{
			UserID: 7,
			Status: status,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Equal(t, 0, repo.progressCalls)
}

func TestUpdateProgress_InvalidTransition(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusPending)}
	svc := NewService(repo, &fakeAuthorizer{allowed: true}, nopLogger{})

	_, err := svc.UpdateProgress(context.Background(), 1, &models.UpdateProgressRequest{
		UserID: 7,
		Status: "in_progress",
	})

	var transitionErr *domain.InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusPending, transitionErr.From)
	assert.Equal(t, domain.StatusInProgress, transitionErr.To)
}

func TestUpdateProgress_RequiresApproveCapability(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusApproved)}
	svc := NewService(repo, &fakeAuthorizer{allowed: false}, nopLogger{})

	_, err := svc.UpdateProgress(context.Background(), 1, &models.UpdateProgressRequest{
		UserID: 7,
		Status: "in_progress",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, repo.progressCalls)
}

func TestUpdateProgress_LostStatusRace(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusApproved), progressErr: bookingRepo.ErrStatusConflict}
	svc := NewService(repo, &fakeAuthorizer{allowed: true}, nopLogger{})

	_, err := svc.UpdateProgress(context.Background(), 1, &models.UpdateProgressRequest{
		UserID: 7,
		Status: "in_progress",
	})

	var transitionErr *domain.InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusInProgress, transitionErr.To)
}

func TestUpdateProgress_AuthorizerUnavailable(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(1, domain.StatusApproved)}
	svc := NewService(repo, &fakeAuthorizer{err: errors.New("connection refused")}, nopLogger{})

	_, err := svc.UpdateProgress(context.Background(), 1, &models.UpdateProgressRequest{
		UserID: 7,
		Status: "in_progress",
	})
	assert.ErrorIs(t, err, ErrInternal)
}
