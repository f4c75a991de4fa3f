package domain

// RoomBookingsFilter фильтр выборки бронирований комнаты, пересекающих окно
type RoomBookingsFilter struct {
	RoomID           int64           // Обязательный параметр
	Window           Interval        // Окно запроса [Start, End)
	Statuses         []BookingStatus // Учитываемые статусы (пустой слайс - RoomBlockingStatuses)
	ExcludeBookingID *int64          // Исключить бронирование (перепроверка при редактировании)
}

// EquipmentBookingsFilter фильтр выборки бронирований, удерживающих оборудование в окне
type EquipmentBookingsFilter struct {
	EquipmentID int64
	Window      Interval
	Statuses    []BookingStatus // Пустой слайс - EquipmentHoldingStatuses
}

// CalendarFilter фильтр календарной проекции активных бронирований
type CalendarFilter struct {
	Window  Interval
	RoomIDs []int64 // Пустой слайс - все комнаты календарных категорий
}
