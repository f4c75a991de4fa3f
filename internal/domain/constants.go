package domain

// RoomBlockingStatuses статусы, при которых бронирование блокирует комнату.
// Используется проверкой доступности комнаты по умолчанию.
var RoomBlockingStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}

// EquipmentHoldingStatuses статусы, при которых позиции бронирования
// удерживают оборудование. Шире RoomBlockingStatuses: запущенное
// бронирование (in_progress) все еще физически держит оборудование.
var EquipmentHoldingStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusInProgress,
}

// ActiveStatuses статусы активных бронирований (потребляют емкость ресурсов).
// Используется календарем и списочными выборками.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusInProgress,
}

// Business validation constants
const (
	MaxPurposeLength         = 500
	MaxRejectionReasonLength = 500
	MinEquipmentLineQuantity = 1
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
