package availability

import (
	"context"
	"errors"
	"fmt"

	equipmentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/equipment"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// EquipmentCalculator вычисление доступного количества оборудования.
// Доступность всегда считается по активным бронированиям, запас в
// каталоге не мутируется.
type EquipmentCalculator struct {
	bookingRepo   BookingRepository
	equipmentRepo EquipmentRepository
	logger        Logger
}

// NewEquipmentCalculator создает новый экземпляр калькулятора
func NewEquipmentCalculator(bookingRepo BookingRepository, equipmentRepo EquipmentRepository, logger Logger) *EquipmentCalculator {
	return &EquipmentCalculator{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

// AvailableQuantity возвращает свободное количество оборудования в окне:
// запас минус сумма зарезервированного активными бронированиями,
// пересекающими окно. Никогда не возвращает отрицательное число, даже
// если исторические данные рассогласованы.
func (c *EquipmentCalculator) AvailableQuantity(ctx context.Context, equipmentID int64, window domain.Interval) (int, error) {
	if !window.IsValid() {
		return 0, ErrInvalidWindow
	}

	item, err := c.getItem(ctx, equipmentID)
	if err != nil {
		return 0, err
	}

	reserved, _, err := c.reservedQuantity(ctx, equipmentID, window)
	if err != nil {
		return 0, err
	}

	available := item.StockQuantity - reserved
	if available < 0 {
		available = 0
	}

	return available, nil
}

// CanSatisfy проверяет, что запрошенное количество положительно и
// не превышает доступное в окне
func (c *EquipmentCalculator) CanSatisfy(ctx context.Context, equipmentID int64, requestedQty int, window domain.Interval) (bool, error) {
	if requestedQty <= 0 {
		return false, nil
	}

	available, err := c.AvailableQuantity(ctx, equipmentID, window)
	if err != nil {
		return false, err
	}

	return requestedQty <= available, nil
}

// CheckLines пакетная проверка позиций оборудования одного бронирования.
// Проверяет ВСЕ позиции и возвращает отчет по каждой неудовлетворимой,
// а не только по первой - чтобы пользователь увидел все причины отказа
// за один запрос. Пустая мапа означает, что все позиции удовлетворимы.
func (c *EquipmentCalculator) CheckLines(ctx context.Context, lines []domain.EquipmentLine, window domain.Interval) (map[int64]EquipmentConflict, error) {
	if !window.IsValid() {
		return nil, ErrInvalidWindow
	}

	conflicts := make(map[int64]EquipmentConflict)

	for _, line := range lines {
		item, err := c.getItem(ctx, line.EquipmentID)
		if err != nil {
			return nil, err
		}

		reserved, holds, err := c.reservedQuantity(ctx, line.EquipmentID, window)
		if err != nil {
			return nil, err
		}

		available := item.StockQuantity - reserved
		if available < 0 {
			available = 0
		}

		if line.Quantity < domain.MinEquipmentLineQuantity || line.Quantity > available {
			conflicts[line.EquipmentID] = EquipmentConflict{
				EquipmentID: line.EquipmentID,
				Requested:   line.Quantity,
				Available:   available,
				TotalStock:  item.StockQuantity,
				Reserved:    reserved,
				Holds:       holds,
			}
			c.logger.Info("CheckLines: equipment=%d conflict, requested=%d available=%d stock=%d reserved=%d",
				line.EquipmentID, line.Quantity, available, item.StockQuantity, reserved)
		}
	}

	return conflicts, nil
}

// reservedQuantity суммирует зарезервированное количество по активным
// бронированиям, реально пересекающим окно, и собирает их вклады
func (c *EquipmentCalculator) reservedQuantity(ctx context.Context, equipmentID int64, window domain.Interval) (int, []EquipmentHold, error) {
	bookings, err := c.bookingRepo.GetActiveForEquipment(ctx, domain.EquipmentBookingsFilter{
		EquipmentID: equipmentID,
		Window:      window,
	})
	if err != nil {
		c.logger.Error("reservedQuantity: failed to fetch bookings for equipment=%d: %v", equipmentID, err)
		return 0, nil, fmt.Errorf("%w: reservedQuantity - repository error: %v", ErrInternal, err)
	}

	reserved := 0
	holds := make([]EquipmentHold, 0)

	for _, b := range bookings {
		if !window.Overlaps(b.Window()) {
			continue
		}

		line, ok := b.LineFor(equipmentID)
		if !ok {
			continue
		}

		reserved += line.Quantity
		holds = append(holds, EquipmentHold{
			BookingID: b.ID,
			Window:    b.Window(),
			Quantity:  line.Quantity,
		})
	}

	return reserved, holds, nil
}

func (c *EquipmentCalculator) getItem(ctx context.Context, equipmentID int64) (*domain.EquipmentItem, error) {
	item, err := c.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, equipmentRepo.ErrEquipmentNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrEquipmentNotFound, equipmentID)
		}
		c.logger.Error("getItem: failed to fetch equipment=%d: %v", equipmentID, err)
		return nil, fmt.Errorf("%w: getItem - repository error: %v", ErrInternal, err)
	}
	return item, nil
}
