package availability

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований.
// Реализация может предварительно фильтровать по пересечению окна на
// стороне хранилища; проверки в этом пакете в любом случае прогоняют
// каждое бронирование через domain.Overlaps.
type BookingRepository interface {
	GetActiveForRoom(ctx context.Context, filter domain.RoomBookingsFilter) ([]*domain.Booking, error)
	GetActiveForEquipment(ctx context.Context, filter domain.EquipmentBookingsFilter) ([]*domain.Booking, error)
}

// EquipmentRepository интерфейс каталога оборудования
type EquipmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.EquipmentItem, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.EquipmentItem, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
