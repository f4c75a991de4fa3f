package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Корректность временного окна здесь НЕ проверяется: она часть
// структурированного решения (Decision.InvalidWindow), а не ошибка входа.
func validateRequest(req *Request) error {
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if len(req.Purpose) > domain.MaxPurposeLength {
		return fmt.Errorf("%w: purpose exceeds %d characters", ErrInvalidInput, domain.MaxPurposeLength)
	}

	seen := make(map[int64]bool, len(req.Equipment))
	for _, line := range req.Equipment {
		if line.EquipmentID <= 0 {
			return fmt.Errorf("%w: equipmentID must be positive", ErrInvalidInput)
		}
		if line.Quantity < domain.MinEquipmentLineQuantity {
			return fmt.Errorf("%w: equipment quantity must be at least %d", ErrInvalidInput, domain.MinEquipmentLineQuantity)
		}
		// Бронирование не может перечислять одну единицу оборудования дважды
		if seen[line.EquipmentID] {
			return fmt.Errorf("%w: duplicate equipment item id=%d", ErrInvalidInput, line.EquipmentID)
		}
		seen[line.EquipmentID] = true
	}

	return nil
}
