package validate_booking

import (
	"context"

	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
)

type ValidateBookingUseCase interface {
	Validate(ctx context.Context, req *createBooking.Request) (*createBooking.Decision, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
