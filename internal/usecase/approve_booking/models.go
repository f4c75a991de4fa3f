package approve_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на подтверждение бронирования
type Request struct {
	BookingID int64
	ActorID   int64
}

// Response модель ответа с подтвержденным бронированием
type Response struct {
	ID        int64
	Status    string
	DecidedBy int64
	DecidedAt time.Time
}

// toResponse конвертирует доменное бронирование в модель ответа
func toResponse(b *domain.Booking) *Response {
	resp := &Response{
		ID:     b.ID,
		Status: string(b.Status),
	}
	if b.DecidedBy != nil {
		resp.DecidedBy = *b.DecidedBy
	}
	if b.DecidedAt != nil {
		resp.DecidedAt = *b.DecidedAt
	}
	return resp
}
