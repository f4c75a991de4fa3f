package domain

import "time"

// RoomCategory категория комнаты
type RoomCategory string

const (
	RoomCategoryClassroom    RoomCategory = "classroom"
	RoomCategoryLaboratory   RoomCategory = "laboratory"
	RoomCategoryAmphitheater RoomCategory = "amphitheater"
)

// SchedulableCategories категории, попадающие в общий календарь расписания
var SchedulableCategories = []RoomCategory{
	RoomCategoryLaboratory,
	RoomCategoryAmphitheater,
}

// IsValid returns true if the category is recognized
func (c RoomCategory) IsValid() bool {
	return c == RoomCategoryClassroom ||
		c == RoomCategoryLaboratory ||
		c == RoomCategoryAmphitheater
}

// IsSchedulable returns true if rooms of this category appear in the calendar view
func (c RoomCategory) IsSchedulable() bool {
	for _, sc := range SchedulableCategories {
		if c == sc {
			return true
		}
	}
	return false
}

// Room represents a bookable room.
// Изменение capacity/category администратором не инвалидирует
// существующие бронирования задним числом.
type Room struct {
	ID       int64
	Name     string
	Capacity int
	Category RoomCategory
	OwnerID  int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
