package approve_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// UseCase подтверждение бронирования. Переход возможен только из
// pending; повторное подтверждение или подтверждение уже решенного
// бронирования возвращает domain.InvalidStateTransitionError.
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

// Execute выполняет подтверждение бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApproveBooking: booking=%d, actor=%d", req.BookingID, req.ActorID)

	if req.BookingID <= 0 || req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and actorID must be positive", ErrInvalidInput)
	}

	// Способность подтверждать выдает внешний сервис авторизации.
	// Его недоступность - отказ, не разрешение.
	allowed, err := uc.authorizer.CanApprove(ctx, req.ActorID)
	if err != nil {
		uc.logger.Error("ApproveBooking: capability check failed for actor=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: capability check: %v", ErrInternal, err)
	}
	if !allowed {
		uc.logger.Warn("ApproveBooking: actor=%d lacks approve capability", req.ActorID)
		return nil, ErrAccessDenied
	}

	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusPending {
		uc.logger.Warn("ApproveBooking: booking=%d is %s, not pending", booking.ID, booking.Status)
		return nil, domain.NewInvalidStateTransitionError(booking.Status, domain.StatusApproved)
	}

	now := uc.timeProvider.Now()

	// Причина отклонения очищается: подтвержденное бронирование
	// не может нести остатки прошлого отказа (reason = nil)
	err = uc.bookingRepo.UpdateDecision(ctx, booking.ID, domain.StatusApproved, req.ActorID, now, nil)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotPending) {
			// Конкурентное решение успело раньше - перечитываем статус
			return nil, uc.transitionConflict(ctx, req.BookingID, domain.StatusApproved)
		}
		uc.logger.Error("ApproveBooking: failed to update booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update decision: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusApproved
	booking.DecidedBy = ptr.Ptr(req.ActorID)
	booking.DecidedAt = ptr.Ptr(now)
	booking.RejectionReason = nil

	uc.logger.Info("ApproveBooking: successfully approved booking=%d", booking.ID)

	event := events.FromBooking(booking, ptr.Ptr(req.ActorID), nil, now)
	if err := uc.publisher.Publish(ctx, events.QueueReservationApproved, event); err != nil {
		uc.logger.Warn("ApproveBooking: failed to publish approved event for booking=%d: %v", booking.ID, err)
	}

	return toResponse(booking), nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ApproveBooking: booking=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ApproveBooking: repository error for booking=%d: %v", id, err)
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
