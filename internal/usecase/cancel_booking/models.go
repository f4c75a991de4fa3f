package cancel_booking

import "time"

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64
	ActorID   int64
}

// Response модель ответа с отмененным бронированием
type Response struct {
	ID          int64
	Status      string
	CancelledBy int64
	CancelledAt time.Time
}
