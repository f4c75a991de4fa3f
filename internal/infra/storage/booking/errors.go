package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrBookingNotPending возвращается, когда решение по бронированию
	// невозможно: статус уже не pending (конкурентное решение или отмена)
	ErrBookingNotPending = errors.New("booking.repository: booking is not pending")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	// из текущего статуса
	ErrCannotCancel = errors.New("booking.repository: booking cannot be cancelled")

	// ErrStatusConflict возвращается, когда переход статуса не применился:
	// текущий статус в базе отличается от ожидаемого
	ErrStatusConflict = errors.New("booking.repository: booking status conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
