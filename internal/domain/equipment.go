package domain

import "time"

// EquipmentItem единица разделяемого оборудования с конечным запасом.
// StockQuantity - статический потолок одновременно резервируемых единиц,
// а не живой счетчик: доступность всегда вычисляется по активным
// бронированиям, никогда не декрементируется на месте (исключает
// lost-update гонки при конкурентных бронированиях).
type EquipmentItem struct {
	ID            int64
	Name          string
	StockQuantity int
	OwnerID       int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
