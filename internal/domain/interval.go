package domain

import "time"

// Interval полуоткрытый временной интервал [Start, End).
// Начало включается, конец исключается: бронирование 09:00-10:00
// не конфликтует с бронированием 10:00-11:00.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval создает интервал [start, end)
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// IsValid проверяет, что начало строго раньше конца
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов.
// Граничные случаи (конец одного совпадает с началом другого)
// пересечением НЕ считаются.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// Contains проверяет, что момент t принадлежит интервалу [Start, End)
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration возвращает длительность интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps единственная точка истины для всех temporal сравнений в сервисе.
// Все компоненты (проверка комнат, подсчет оборудования, календарь) обязаны
// делегировать сюда, а не выводить собственную логику сравнения.
//
// Полуоткрытая семантика: пересечение есть только если
// aStart < bEnd И bStart < aEnd (строгие неравенства).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
