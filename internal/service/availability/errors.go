package availability

import "errors"

var (
	// ErrEquipmentNotFound возвращается, когда запрошенное оборудование
	// отсутствует в каталоге
	ErrEquipmentNotFound = errors.New("availability: equipment item not found")

	// ErrInvalidWindow возвращается при некорректном окне запроса (start >= end)
	ErrInvalidWindow = errors.New("availability: invalid time window")

	// ErrInternal возвращается при ошибках нижележащего хранилища
	ErrInternal = errors.New("availability: internal error")
)
