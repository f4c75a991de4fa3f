package cancel_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	booking     *domain.Booking
	cancelErr   error
	cancelCalls int
	lastActorID int64
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, actorID int64, cancelledAt time.Time) error {
	f.cancelCalls++
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.lastActorID = actorID
	f.booking.Status = domain.StatusCancelled
	return nil
}

type fakeAuthorizer struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeAuthorizer) CanCancelAny(ctx context.Context, userID int64) (bool, error) {
	f.calls++
	return f.allowed, f.err
}

type fakePublisher struct {
	queues []string
	events []events.ReservationEvent
}

func (f *fakePublisher) Publish(ctx context.Context, queue string, event events.ReservationEvent) error {
	f.queues = append(f.queues, queue)
	f.events = append(f.events, event)
	return nil
}

func booking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          1,
		RequesterID: 100,
		RoomID:      1,
		StartTime:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		Status:      status,
	}
}

func TestExecute_RequesterCancelsOwnPending(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(domain.StatusPending)}
	authorizer := &fakeAuthorizer{}
	publisher := &fakePublisher{}
	uc := NewUseCase(repo, authorizer, publisher, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 100})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, int64(100), resp.CancelledBy)
	assert.False(t, resp.CancelledAt.IsZero())

	// Автор отменяет без обращения к сервису прав
	assert.Equal(t, 0, authorizer.calls)

	require.Len(t, publisher.queues, 1)
	assert.Equal(t, events.QueueReservationCancelled, publisher.queues[0])
	assert.Nil(t, publisher.events[0].Reason)
}

func TestExecute_StrangerCannotCancelPending(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(domain.StatusPending)}
	authorizer := &fakeAuthorizer{allowed: true}
	uc := NewUseCase(repo, authorizer, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})

	assert.ErrorIs(t, err, ErrAccessDenied)
	// Для pending способность cancel_any не проверяется вовсе
	assert.Equal(t, 0, authorizer.calls)
	assert.Equal(t, 0, repo.cancelCalls)
}

func TestExecute_CancelAnyCancelsApproved(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(domain.StatusApproved)}
	publisher := &fakePublisher{}
	uc := NewUseCase(repo, &fakeAuthorizer{allowed: true}, publisher, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, int64(7), resp.CancelledBy)
	assert.Equal(t, int64(7), repo.lastActorID)
	require.Len(t, publisher.queues, 1)
}

func TestExecute_StrangerWithoutCapabilityDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(domain.StatusApproved)}
	uc := NewUseCase(repo, &fakeAuthorizer{allowed: false}, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, repo.cancelCalls)
}

func TestExecute_AuthorizerUnavailableDenies(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(domain.StatusApproved)}
	authorizer := &fakeAuthorizer{err: errors.New("connection refused")}
	uc := NewUseCase(repo, authorizer, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, repo.cancelCalls)
}

func TestExecute_TerminalAndProgressStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BookingStatus
	}{
		{"in_progress", domain.StatusInProgress},
		{"completed", domain.StatusCompleted},
		{"rejected", domain.StatusRejected},
		{"already cancelled", domain.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(&fakeBookingRepo{booking: booking(tt.status)}, &fakeAuthorizer{allowed: true}, &fakePublisher{}, nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 100})

			var transitionErr *domain.InvalidStateTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, tt.status, transitionErr.From)
			assert.Equal(t, domain.StatusCancelled, transitionErr.To)
		})
	}
}

func TestExecute_LostCancelRace(t *testing.T) {
	repo := &fakeBookingRepo{booking: booking(domain.StatusPending), cancelErr: bookingRepo.ErrCannotCancel}
	publisher := &fakePublisher{}
	uc := NewUseCase(repo, &fakeAuthorizer{}, publisher, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 100})

	var transitionErr *domain.InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusCancelled, transitionErr.To)
	assert.Empty(t, publisher.queues)
}

func TestExecute_BookingNotFound(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeAuthorizer{}, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 404, ActorID: 100})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeAuthorizer{}, &fakePublisher{}, nopLogger{})

	for _, req := range []*Request{
		{BookingID: 0, ActorID: 100},
		{BookingID: 1, ActorID: 0},
		{BookingID: -1, ActorID: -1},
	} {
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}
