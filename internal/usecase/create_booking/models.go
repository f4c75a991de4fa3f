package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
)

// EquipmentLineRequest запрошенная позиция оборудования
type EquipmentLineRequest struct {
	EquipmentID int64
	Quantity    int
}

// Request модель запроса на создание бронирования
type Request struct {
	RequesterID int64
	RoomID      int64
	StartTime   time.Time
	EndTime     time.Time
	Purpose     string
	Equipment   []EquipmentLineRequest
}

// window возвращает запрошенное окно как полуоткрытый интервал
func (r *Request) window() domain.Interval {
	return domain.NewInterval(r.StartTime, r.EndTime)
}

// lines конвертирует запрошенные позиции в доменные
func (r *Request) lines() []domain.EquipmentLine {
	lines := make([]domain.EquipmentLine, 0, len(r.Equipment))
	for _, e := range r.Equipment {
		lines = append(lines, domain.EquipmentLine{
			EquipmentID: e.EquipmentID,
			Quantity:    e.Quantity,
		})
	}
	return lines
}

// Decision структурированный результат валидации. Классы конфликтов не
// схлопываются: отказ несет и конфликт комнаты, и ВСЕ конфликты
// оборудования разом, чтобы пользователь увидел каждую причину за один
// запрос, а не по одной за попытку.
type Decision struct {
	InvalidWindow      bool
	RoomConflict       bool
	EquipmentConflicts map[int64]availability.EquipmentConflict
}

// Accepted возвращает true, если бронирование можно принять
func (d *Decision) Accepted() bool {
	return !d.InvalidWindow && !d.RoomConflict && len(d.EquipmentConflicts) == 0
}

// Result результат выполнения use case: решение и, при принятии,
// созданное бронирование
type Result struct {
	Decision Decision
	Booking  *Response

	// created доменное бронирование для публикации события после коммита
	created *domain.Booking
}

// Response модель созданного бронирования
type Response struct {
	ID          int64
	RequesterID int64
	RoomID      int64
	StartTime   time.Time
	EndTime     time.Time
	Purpose     string
	Status      string
	Equipment   []EquipmentLineRequest
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// toResponse конвертирует доменное бронирование в модель ответа
func toResponse(b *domain.Booking) *Response {
	equipment := make([]EquipmentLineRequest, 0, len(b.EquipmentLines))
	for _, line := range b.EquipmentLines {
		equipment = append(equipment, EquipmentLineRequest{
			EquipmentID: line.EquipmentID,
			Quantity:    line.Quantity,
		})
	}

	return &Response{
		ID:          b.ID,
		RequesterID: b.RequesterID,
		RoomID:      b.RoomID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Purpose:     b.Purpose,
		Status:      string(b.Status),
		Equipment:   equipment,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
