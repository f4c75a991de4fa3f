package get_equipment_availability

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type EquipmentCalculator interface {
	AvailableQuantity(ctx context.Context, equipmentID int64, window domain.Interval) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
