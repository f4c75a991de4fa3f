package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
)

// Service сервис чтения бронирований и переходов выполнения.
// Решения (approve/reject/cancel) живут в отдельных usecase'ах,
// здесь только чтение и запуск/завершение подтвержденных бронирований.
type Service struct {
	bookingRepo BookingRepository
	authorizer  Authorizer
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	authorizer Authorizer,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование
// или если он обладает способностью approve
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkReadAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByRequesterID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetRoomBookings получает бронирования комнаты, пересекающие заданное окно.
// Список раскрывает авторов и цели бронирований, поэтому доступен только
// обладателям способности approve.
func (s *Service) GetRoomBookings(ctx context.Context, req *models.GetRoomBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetRoomBookings: fetching bookings for room=%d, window=[%s, %s) by user=%d",
		req.RoomID, req.StartTime.Format("2006-01-02 15:04"), req.EndTime.Format("2006-01-02 15:04"), req.UserID)

	if err := s.checkApproverAccess(ctx, req.UserID); err != nil {
		return nil, err
	}

	window := domain.Interval{Start: req.StartTime, End: req.EndTime}
	if !window.IsValid() {
		s.logger.Warn("GetRoomBookings: invalid window for room=%d", req.RoomID)
		return nil, fmt.Errorf("%w: start time must be strictly before end time", ErrInvalidInput)
	}

	statuses := make([]domain.BookingStatus, 0, len(req.Statuses))
	for _, raw := range req.Statuses {
		status, err := domain.ParseBookingStatus(raw)
		if err != nil {
			s.logger.Warn("GetRoomBookings: invalid status=%s for room=%d", raw, req.RoomID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		statuses = append(statuses, status)
	}
	if len(statuses) == 0 {
		statuses = domain.ActiveStatuses
	}

	bookings, err := s.bookingRepo.GetActiveForRoom(ctx, domain.RoomBookingsFilter{
		RoomID:   req.RoomID,
		Window:   window,
		Statuses: statuses,
	})
	if err != nil {
		s.logger.Error("GetRoomBookings: repository error for room=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: GetRoomBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetRoomBookings: successfully fetched %d bookings for room=%d", len(bookings), req.RoomID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateProgress переводит подтвержденное бронирование в in_progress либо
// запущенное - в completed. Доступно только обладателям способности approve.
// Остальные переходы выполняются отдельными usecase'ами.
func (s *Service) UpdateProgress(ctx context.Context, bookingID int64, req *models.UpdateProgressRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateProgress: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	target, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateProgress: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if target != domain.StatusInProgress && target != domain.StatusCompleted {
		s.logger.Warn("UpdateProgress: status=%s is not a progress transition for booking id=%d", target, bookingID)
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrInvalidInput, domain.StatusInProgress, domain.StatusCompleted)
	}

	if err := s.checkApproverAccess(ctx, req.UserID); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateProgress: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateProgress: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateProgress - repository error: %v", ErrInternal, err)
	}

	if !booking.Status.CanTransitionTo(target) {
		s.logger.Warn("UpdateProgress: booking id=%d cannot move from %s to %s", bookingID, booking.Status, target)
		return nil, domain.NewInvalidStateTransitionError(booking.Status, target)
	}

	if err := s.bookingRepo.UpdateProgress(ctx, bookingID, booking.Status, target); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			// Конкурентный переход успел раньше - перечитываем статус
			from := booking.Status
			if current, err := s.bookingRepo.GetByID(ctx, bookingID); err == nil {
				from = current.Status
			}
			return nil, domain.NewInvalidStateTransitionError(from, target)
		}
		s.logger.Error("UpdateProgress: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateProgress - repository error: %v", ErrInternal, err)
	}

	booking.Status = target

	s.logger.Info("UpdateProgress: successfully updated booking id=%d to status=%s", bookingID, target)
	return models.FromDomainBooking(booking), nil
}

// checkReadAccess проверяет право пользователя видеть бронирование
func (s *Service) checkReadAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.RequesterID == userID {
		return nil
	}
	return s.checkApproverAccess(ctx, userID)
}

// checkApproverAccess проверяет способность approve у пользователя
func (s *Service) checkApproverAccess(ctx context.Context, userID int64) error {
	allowed, err := s.authorizer.CanApprove(ctx, userID)
	if err != nil {
		s.logger.Error("checkApproverAccess: capability check failed for user=%d: %v", userID, err)
		return fmt.Errorf("%w: capability check: %v", ErrInternal, err)
	}
	if !allowed {
		return ErrAccessDenied
	}
	return nil
}
