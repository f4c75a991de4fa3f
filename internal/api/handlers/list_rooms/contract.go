package list_rooms

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/rooms"
)

type RoomService interface {
	List(ctx context.Context, categories []string) (*rooms.RoomListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
