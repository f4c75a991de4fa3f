package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetRoomBookingsRequest запрос на получение бронирований комнаты в окне
type GetRoomBookingsRequest struct {
	UserID    int64     `json:"userId"`
	RoomID    int64     `json:"roomId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Statuses  []string  `json:"statuses,omitempty"`
}

// UpdateProgressRequest запрос на переход in_progress/completed
type UpdateProgressRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// Response модели

// EquipmentLineResponse позиция оборудования в ответе
type EquipmentLineResponse struct {
	EquipmentID int64 `json:"equipmentId"`
	Quantity    int   `json:"quantity"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	RequesterID int64  `json:"requesterId"`
	RoomID      int64  `json:"roomId"`
	StartTime   string `json:"startTime"` // ISO 8601
	EndTime     string `json:"endTime"`   // ISO 8601
	Purpose     string `json:"purpose"`
	Status      string `json:"status"`

	Equipment []EquipmentLineResponse `json:"equipment,omitempty"`

	DecidedBy       *int64  `json:"decidedBy,omitempty"`
	DecidedAt       *string `json:"decidedAt,omitempty"` // ISO 8601
	RejectionReason *string `json:"rejectionReason,omitempty"`

	CancelledBy *int64  `json:"cancelledBy,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		RequesterID:     b.RequesterID,
		RoomID:          b.RoomID,
		StartTime:       b.StartTime.Format(time.RFC3339),
		EndTime:         b.EndTime.Format(time.RFC3339),
		Purpose:         b.Purpose,
		Status:          string(b.Status),
		DecidedBy:       b.DecidedBy,
		RejectionReason: b.RejectionReason,
		CancelledBy:     b.CancelledBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.DecidedAt != nil {
		decidedAt := b.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	for _, line := range b.EquipmentLines {
		resp.Equipment = append(resp.Equipment, EquipmentLineResponse{
			EquipmentID: line.EquipmentID,
			Quantity:    line.Quantity,
		})
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
