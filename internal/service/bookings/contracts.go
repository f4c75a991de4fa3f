package bookings

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRequesterID(ctx context.Context, requesterID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetActiveForRoom(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error)
	UpdateProgress(ctx context.Context, id int64, from, to domain.BookingStatus) error
}

// Authorizer предикаты способностей внешнего сервиса авторизации
type Authorizer interface {
	CanApprove(ctx context.Context, userID int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
