package reject_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reject_booking: booking not found")

	// ErrAccessDenied возвращается, когда у актора нет права принимать решения
	ErrAccessDenied = errors.New("reject_booking: access denied")

	// ErrReasonRequired возвращается при отклонении без причины.
	// Проверяется до любого изменения состояния.
	ErrReasonRequired = errors.New("reject_booking: rejection reason is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reject_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reject_booking: internal error")
)
