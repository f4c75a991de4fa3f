package validate_booking

import (
	"sort"
	"time"

	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
)

// EquipmentLineModel запрошенная позиция оборудования
type EquipmentLineModel struct {
	EquipmentID int64 `json:"equipmentId"`
	Quantity    int   `json:"quantity"`
}

// ValidateBookingRequest HTTP request model - тот же контракт, что и
// создание бронирования, но без побочных эффектов
type ValidateBookingRequest struct {
	RoomID    int64                `json:"roomId"`
	StartTime time.Time            `json:"startTime"` // RFC3339
	EndTime   time.Time            `json:"endTime"`   // RFC3339
	Purpose   string               `json:"purpose"`
	Equipment []EquipmentLineModel `json:"equipment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateBookingRequest) ToUseCaseRequest(requesterID int64) *createBooking.Request {
	equipment := make([]createBooking.EquipmentLineRequest, 0, len(r.Equipment))
	for _, line := range r.Equipment {
		equipment = append(equipment, createBooking.EquipmentLineRequest{
			EquipmentID: line.EquipmentID,
			Quantity:    line.Quantity,
		})
	}

	return &createBooking.Request{
		RequesterID: requesterID,
		RoomID:      r.RoomID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Purpose:     r.Purpose,
		Equipment:   equipment,
	}
}

// EquipmentHoldModel активное удержание оборудования в окне конфликта
type EquipmentHoldModel struct {
	BookingID int64  `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Quantity  int    `json:"quantity"`
}

// EquipmentConflictModel детализация нехватки оборудования
type EquipmentConflictModel struct {
	EquipmentID int64                `json:"equipmentId"`
	Requested   int                  `json:"requested"`
	Available   int                  `json:"available"`
	TotalStock  int                  `json:"totalStock"`
	Reserved    int                  `json:"reserved"`
	Holds       []EquipmentHoldModel `json:"holds,omitempty"`
}

// DecisionResponse итог валидации: все классы конфликтов разом
type DecisionResponse struct {
	Accepted           bool                     `json:"accepted"`
	InvalidWindow      bool                     `json:"invalidWindow"`
	RoomConflict       bool                     `json:"roomConflict"`
	EquipmentConflicts []EquipmentConflictModel `json:"equipmentConflicts,omitempty"`
}

// FromDecision конвертирует решение use case в HTTP модель
func FromDecision(d *createBooking.Decision) *DecisionResponse {
	resp := &DecisionResponse{
		Accepted:      d.Accepted(),
		InvalidWindow: d.InvalidWindow,
		RoomConflict:  d.RoomConflict,
	}

	ids := make([]int64, 0, len(d.EquipmentConflicts))
	for id := range d.EquipmentConflicts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		conflict := d.EquipmentConflicts[id]
		model := EquipmentConflictModel{
			EquipmentID: conflict.EquipmentID,
			Requested:   conflict.Requested,
			Available:   conflict.Available,
			TotalStock:  conflict.TotalStock,
			Reserved:    conflict.Reserved,
		}
		for _, hold := range conflict.Holds {
			model.Holds = append(model.Holds, EquipmentHoldModel{
				BookingID: hold.BookingID,
				StartTime: hold.Window.Start.Format(time.RFC3339),
				EndTime:   hold.Window.End.Format(time.RFC3339),
				Quantity:  hold.Quantity,
			})
		}
		resp.EquipmentConflicts = append(resp.EquipmentConflicts, model)
	}

	return resp
}
