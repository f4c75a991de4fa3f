package availability

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// EquipmentHold вклад одного бронирования в занятость единицы оборудования
type EquipmentHold struct {
	BookingID int64
	Window    domain.Interval
	Quantity  int
}

// EquipmentConflict полный диагностический отчет по одной единице
// оборудования, которую не удалось удовлетворить. Содержит всё, что
// нужно вызывающему для единого ответа пользователю: запрошенное,
// доступное, общий запас, занятое и список конфликтующих бронирований
// с их окнами и количествами.
type EquipmentConflict struct {
	EquipmentID int64
	Requested   int
	Available   int
	TotalStock  int
	Reserved    int
	Holds       []EquipmentHold
}
