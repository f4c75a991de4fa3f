package domain

import "time"

// Booking represents a room reservation in the system
type Booking struct {
	ID          int64
	RequesterID int64
	RoomID      int64
	StartTime   time.Time
	EndTime     time.Time
	Purpose     string
	Status      BookingStatus

	// Метаданные решения (устанавливаются на approve/reject)
	DecidedBy       *int64
	DecidedAt       *time.Time
	RejectionReason *string

	// Метаданные отмены (устанавливаются на cancel)
	CancelledBy *int64
	CancelledAt *time.Time

	EquipmentLines []EquipmentLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EquipmentLine позиция оборудования в бронировании.
// Уникальна по паре (booking, equipment): одно бронирование не может
// перечислять одну и ту же единицу оборудования дважды.
type EquipmentLine struct {
	BookingID   int64
	EquipmentID int64
	Quantity    int
}

// Window возвращает временное окно бронирования как полуоткрытый интервал
func (b *Booking) Window() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsActive returns true if the booking still consumes room/equipment capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending ||
		b.Status == StatusApproved ||
		b.Status == StatusInProgress
}

// IsDecided returns true if an approver has ruled on the booking
func (b *Booking) IsDecided() bool {
	return b.Status.IsDecided()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// LineFor возвращает позицию оборудования для указанной единицы, если есть
func (b *Booking) LineFor(equipmentID int64) (EquipmentLine, bool) {
	for _, line := range b.EquipmentLines {
		if line.EquipmentID == equipmentID {
			return line, true
		}
	}
	return EquipmentLine{}, false
}
