// Package events публикация событий жизненного цикла бронирований в брокер.
// Потребители (диспетчер уведомлений, аналитика) получают достаточно данных,
// чтобы не ходить в основную базу.
package events

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Имена очередей событий жизненного цикла
const (
	QueueReservationSubmitted = "reservation.submitted"
	QueueReservationApproved  = "reservation.approved"
	QueueReservationRejected  = "reservation.rejected"
	QueueReservationCancelled = "reservation.cancelled"
)

// EquipmentLinePayload позиция оборудования в событии
type EquipmentLinePayload struct {
	EquipmentID int64 `json:"equipmentId"`
	Quantity    int   `json:"quantity"`
}

// ReservationEvent payload события жизненного цикла бронирования
type ReservationEvent struct {
	BookingID   int64                  `json:"bookingId"`
	RequesterID int64                  `json:"requesterId"`
	RoomID      int64                  `json:"roomId"`
	StartTime   string                 `json:"startTime"` // RFC3339
	EndTime     string                 `json:"endTime"`   // RFC3339
	Status      string                 `json:"status"`
	Equipment   []EquipmentLinePayload `json:"equipment,omitempty"`
	ActorID     *int64                 `json:"actorId,omitempty"`
	Reason      *string                `json:"reason,omitempty"`
	OccurredAt  string                 `json:"occurredAt"` // RFC3339
}

// FromBooking собирает payload события из бронирования
func FromBooking(b *domain.Booking, actorID *int64, reason *string, occurredAt time.Time) ReservationEvent {
	lines := make([]EquipmentLinePayload, 0, len(b.EquipmentLines))
	for _, line := range b.EquipmentLines {
		lines = append(lines, EquipmentLinePayload{
			EquipmentID: line.EquipmentID,
			Quantity:    line.Quantity,
		})
	}

	return ReservationEvent{
		BookingID:   b.ID,
		RequesterID: b.RequesterID,
		RoomID:      b.RoomID,
		StartTime:   b.StartTime.UTC().Format(time.RFC3339),
		EndTime:     b.EndTime.UTC().Format(time.RFC3339),
		Status:      string(b.Status),
		Equipment:   lines,
		ActorID:     actorID,
		Reason:      reason,
		OccurredAt:  occurredAt.UTC().Format(time.RFC3339),
	}
}
