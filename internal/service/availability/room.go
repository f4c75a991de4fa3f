package availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// RoomChecker проверка доступности комнаты в заданном окне
type RoomChecker struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewRoomChecker создает новый экземпляр проверки доступности комнат
func NewRoomChecker(bookingRepo BookingRepository, logger Logger) *RoomChecker {
	return &RoomChecker{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// IsRoomFree проверяет, свободна ли комната в окне [window.Start, window.End).
// Учитываются бронирования в статусах statuses (пустой слайс -
// domain.RoomBlockingStatuses). excludeBookingID исключает бронирование
// из проверки - используется при перепроверке существующего бронирования.
//
// Никакого дополнительного зазора не применяется: бронирования,
// соприкасающиеся границами, не конфликтуют.
func (c *RoomChecker) IsRoomFree(ctx context.Context, roomID int64, window domain.Interval, statuses []domain.BookingStatus, excludeBookingID *int64) (bool, error) {
	if !window.IsValid() {
		return false, ErrInvalidWindow
	}

	bookings, err := c.bookingRepo.GetActiveForRoom(ctx, domain.RoomBookingsFilter{
		RoomID:           roomID,
		Window:           window,
		Statuses:         statuses,
		ExcludeBookingID: excludeBookingID,
	})
	if err != nil {
		c.logger.Error("IsRoomFree: failed to fetch bookings for room=%d: %v", roomID, err)
		return false, fmt.Errorf("%w: IsRoomFree - repository error: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		if window.Overlaps(b.Window()) {
			c.logger.Info("IsRoomFree: room=%d busy, conflicting booking id=%d [%s, %s)",
				roomID, b.ID, b.StartTime.Format("2006-01-02 15:04"), b.EndTime.Format("2006-01-02 15:04"))
			return false, nil
		}
	}

	return true, nil
}
