package reject_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// UseCase отклонение бронирования. Переход возможен только из pending
// и требует непустой причины; причина проверяется до любого изменения
// состояния.
type UseCase struct {
	bookingRepo  BookingRepository
	authorizer   Authorizer
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	authorizer Authorizer,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		authorizer:   authorizer,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет отклонение бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RejectBooking: booking=%d, actor=%d", req.BookingID, req.ActorID)

	if req.BookingID <= 0 || req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and actorID must be positive", ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		uc.logger.Warn("RejectBooking: booking=%d rejected without reason", req.BookingID)
		return nil, ErrReasonRequired
	}
	if len(reason) > domain.MaxRejectionReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxRejectionReasonLength)
	}

	allowed, err := uc.authorizer.CanApprove(ctx, req.ActorID)
	if err != nil {
		uc.logger.Error("RejectBooking: capability check failed for actor=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: capability check: %v", ErrInternal, err)
	}
	if !allowed {
		uc.logger.Warn("RejectBooking: actor=%d lacks approve capability", req.ActorID)
		return nil, ErrAccessDenied
	}

	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusPending {
		uc.logger.Warn("RejectBooking: booking=%d is %s, not pending", booking.ID, booking.Status)
		return nil, domain.NewInvalidStateTransitionError(booking.Status, domain.StatusRejected)
	}

	now := uc.timeProvider.Now()

	err = uc.bookingRepo.UpdateDecision(ctx, booking.ID, domain.StatusRejected, req.ActorID, now, ptr.Ptr(reason))
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotPending) {
			return nil, uc.transitionConflict(ctx, req.BookingID, domain.StatusRejected)
		}
		uc.logger.Error("RejectBooking: failed to update booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update decision: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusRejected
	booking.DecidedBy = ptr.Ptr(req.ActorID)
	booking.DecidedAt = ptr.Ptr(now)
	booking.RejectionReason = ptr.Ptr(reason)

	uc.logger.Info("RejectBooking: successfully rejected booking=%d", booking.ID)

	event := events.FromBooking(booking, ptr.Ptr(req.ActorID), ptr.Ptr(reason), now)
	if err := uc.publisher.Publish(ctx, events.QueueReservationRejected, event); err != nil {
		uc.logger.Warn("RejectBooking: failed to publish rejected event for booking=%d: %v", booking.ID, err)
	}

	return toResponse(booking), nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RejectBooking: booking=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RejectBooking: repository error for booking=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// transitionConflict строит ошибку перехода по актуальному статусу после
// проигранной гонки за решение
func (uc *UseCase) transitionConflict(ctx context.Context, id int64, target domain.BookingStatus) error {
	from := domain.StatusPending
	if current, err := uc.bookingRepo.GetByID(ctx, id); err == nil {
		from = current.Status
	}
	return domain.NewInvalidStateTransitionError(from, target)
}
