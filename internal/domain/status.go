package domain

import "fmt"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusApproved   BookingStatus = "approved"
	StatusRejected   BookingStatus = "rejected"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// validTransitions машина состояний бронирования.
// Отмена моделируется как терминальный статус с актором и временем,
// а не как удаление записи - история сохраняется для аудита.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusRejected:   {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// IsValid returns true if the status is a recognized booking status
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// IsDecided returns true if an approver has already ruled on the booking
func (s BookingStatus) IsDecided() bool {
	return s == StatusApproved || s == StatusRejected
}

// String returns the string representation of the status
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// InvalidStateTransitionError возвращается при попытке недопустимого
// перехода статуса. Содержит текущий статус и запрошенный целевой.
type InvalidStateTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: cannot move booking from %q to %q", e.From, e.To)
}

// NewInvalidStateTransitionError создает ошибку недопустимого перехода
func NewInvalidStateTransitionError(from, to BookingStatus) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{From: from, To: to}
}
