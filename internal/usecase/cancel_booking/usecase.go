package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// UseCase отмена бронирования. Отмена - терминальный статус с актором
// и временем, запись не удаляется. Ожидающее бронирование может отменить
// только его автор; подтвержденное - автор или актор со способностью
// cancel_any.
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

// Execute выполняет отмену бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%d", req.BookingID, req.ActorID)

	if req.BookingID <= 0 || req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and actorID must be positive", ErrInvalidInput)
	}

	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking=%d cannot be cancelled from status=%s", booking.ID, booking.Status)
		return nil, domain.NewInvalidStateTransitionError(booking.Status, domain.StatusCancelled)
	}

	if err := uc.checkCancelRights(ctx, booking, req.ActorID); err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()

	if err := uc.bookingRepo.Cancel(ctx, booking.ID, req.ActorID, now); err != nil {
		if errors.Is(err, bookingRepo.ErrCannotCancel) {
			// Конкурентный переход успел раньше - перечитываем статус
			from := booking.Status
			if current, err := uc.bookingRepo.GetByID(ctx, booking.ID); err == nil {
				from = current.Status
			}
			return nil, domain.NewInvalidStateTransitionError(from, domain.StatusCancelled)
		}
		uc.logger.Error("CancelBooking: failed to cancel booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to cancel: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancelledBy = ptr.Ptr(req.ActorID)
	booking.CancelledAt = ptr.Ptr(now)

	uc.logger.Info("CancelBooking: successfully cancelled booking=%d", booking.ID)

	event := events.FromBooking(booking, ptr.Ptr(req.ActorID), nil, now)
	if err := uc.publisher.Publish(ctx, events.QueueReservationCancelled, event); err != nil {
		uc.logger.Warn("CancelBooking: failed to publish cancelled event for booking=%d: %v", booking.ID, err)
	}

	return &Response{
		ID:          booking.ID,
		Status:      string(booking.Status),
		CancelledBy: req.ActorID,
		CancelledAt: now,
	}, nil
}

// checkCancelRights проверяет право актора на отмену.
// pending: только автор. approved: автор или способность cancel_any.
func (uc *UseCase) checkCancelRights(ctx context.Context, booking *domain.Booking, actorID int64) error {
	if booking.RequesterID == actorID {
		return nil
	}

	if booking.Status == domain.StatusPending {
		uc.logger.Warn("CancelBooking: actor=%d is not the requester of pending booking=%d", actorID, booking.ID)
		return ErrAccessDenied
	}

	allowed, err := uc.authorizer.CanCancelAny(ctx, actorID)
	if err != nil {
		uc.logger.Error("CancelBooking: capability check failed for actor=%d: %v", actorID, err)
		return fmt.Errorf("%w: capability check: %v", ErrInternal, err)
	}
	if !allowed {
		uc.logger.Warn("CancelBooking: actor=%d lacks cancel_any capability for booking=%d", actorID, booking.ID)
		return ErrAccessDenied
	}

	return nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: repository error for booking=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}
