package approve_booking

import (
	"context"
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
	updateErr   error
	lastStatus  domain.BookingStatus
	lastActorID int64
	lastReason  *string
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateDecision(ctx context.Context, id int64, status domain.BookingStatus, actorID int64, decidedAt time.Time, reason *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.lastStatus = status
	f.lastActorID = actorID
	f.lastReason = reason
	f.booking.Status = status
	return nil
}

type fakeAuthorizer struct {
	allowed bool
	err     error
}

func (f *fakeAuthorizer) CanApprove(ctx context.Context, userID int64) (bool, error) {
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

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:          1,
		RequesterID: 100,
		RoomID:      1,
		StartTime:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		Status:      domain.StatusPending,
	}
}

func TestExecute_ApprovesPendingBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	publisher := &fakePublisher{}
	uc := NewUseCase(repo, &fakeAuthorizer{allowed: true}, publisher, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	assert.Equal(t, int64(7), resp.DecidedBy)
	assert.False(t, resp.DecidedAt.IsZero())

	assert.Equal(t, domain.StatusApproved, repo.lastStatus)
	// При подтверждении причина отклонения очищается
	assert.Nil(t, repo.lastReason)

	require.Len(t, publisher.queues, 1)
	assert.Equal(t, events.QueueReservationApproved, publisher.queues[0])
}

func TestExecute_NonPendingBooking(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusApproved,
		domain.StatusRejected,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			booking := pendingBooking()
			booking.Status = status
			repo := &fakeBookingRepo{booking: booking}
			uc := NewUseCase(repo, &fakeAuthorizer{allowed: true}, &fakePublisher{}, nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})

			var transitionErr *domain.InvalidStateTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, status, transitionErr.From)
			assert.Equal(t, domain.StatusApproved, transitionErr.To)
		})
	}
}

func TestExecute_AccessDenied(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{booking: pendingBooking()}, &fakeAuthorizer{allowed: false}, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_AuthorizerUnavailableDenies(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{booking: pendingBooking()}, &fakeAuthorizer{err: assert.AnError}, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_BookingNotFound(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeAuthorizer{allowed: true}, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_LostDecisionRace(t *testing.T) {
	// Конкурентное решение выиграло между чтением и обновлением
	repo := &fakeBookingRepo{booking: pendingBooking(), updateErr: bookingRepo.ErrBookingNotPending}
	uc := NewUseCase(repo, &fakeAuthorizer{allowed: true}, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: 7})

	var transitionErr *domain.InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusApproved, transitionErr.To)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeAuthorizer{allowed: true}, &fakePublisher{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 0, ActorID: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookingID: 1, ActorID: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
