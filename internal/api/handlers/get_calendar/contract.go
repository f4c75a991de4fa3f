package get_calendar

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/calendar"
)

type CalendarService interface {
	GetCalendar(ctx context.Context, req *calendar.GetCalendarRequest) (*calendar.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
