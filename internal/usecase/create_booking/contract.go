package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/events"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// RoomRepository интерфейс каталога комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// EquipmentRepository интерфейс каталога оборудования
type EquipmentRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.EquipmentItem, error)
}

// RoomChecker проверка доступности комнаты
type RoomChecker interface {
	IsRoomFree(ctx context.Context, roomID int64, window domain.Interval, statuses []domain.BookingStatus, excludeBookingID *int64) (bool, error)
}

// EquipmentChecker пакетная проверка позиций оборудования
type EquipmentChecker interface {
	CheckLines(ctx context.Context, lines []domain.EquipmentLine, window domain.Interval) (map[int64]availability.EquipmentConflict, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикация событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, queue string, event events.ReservationEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
