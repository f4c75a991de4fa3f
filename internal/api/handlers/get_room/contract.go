package get_room

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/rooms"
)

type RoomService interface {
	GetByID(ctx context.Context, id int64) (*rooms.RoomResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
