package create_booking

import (
	"sort"
	"time"

	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
)

// EquipmentLineModel позиция оборудования в HTTP запросе и ответе
type EquipmentLineModel struct {
	EquipmentID int64 `json:"equipmentId"`
	Quantity    int   `json:"quantity"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	RoomID    int64                `json:"roomId"`
	StartTime time.Time            `json:"startTime"` // RFC3339
	EndTime   time.Time            `json:"endTime"`   // RFC3339
	Purpose   string               `json:"purpose"`
	Equipment []EquipmentLineModel `json:"equipment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) *createBooking.Request {
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

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64                `json:"id"`
	RequesterID int64                `json:"requesterId"`
	RoomID      int64                `json:"roomId"`
	StartTime   string               `json:"startTime"`
	EndTime     string               `json:"endTime"`
	Purpose     string               `json:"purpose"`
	Status      string               `json:"status"`
	Equipment   []EquipmentLineModel `json:"equipment,omitempty"`
	CreatedAt   string               `json:"createdAt"`
	UpdatedAt   string               `json:"updatedAt"`
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

// CreateBookingResponse HTTP ответ: решение и созданное бронирование
type CreateBookingResponse struct {
	Decision *DecisionResponse `json:"decision"`
	Booking  *BookingResponse  `json:"booking,omitempty"`
}

// FromUseCaseResult конвертирует результат use case в HTTP response
func FromUseCaseResult(result *createBooking.Result) *CreateBookingResponse {
	resp := &CreateBookingResponse{
		Decision: FromDecision(&result.Decision),
	}

	if result.Booking != nil {
		b := result.Booking
		booking := &BookingResponse{
			ID:          b.ID,
			RequesterID: b.RequesterID,
			RoomID:      b.RoomID,
			StartTime:   b.StartTime.Format(time.RFC3339),
			EndTime:     b.EndTime.Format(time.RFC3339),
			Purpose:     b.Purpose,
			Status:      b.Status,
			CreatedAt:   b.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
		}
		for _, line := range b.Equipment {
			booking.Equipment = append(booking.Equipment, EquipmentLineModel{
				EquipmentID: line.EquipmentID,
				Quantity:    line.Quantity,
			})
		}
		resp.Booking = booking
	}

	return resp
}
