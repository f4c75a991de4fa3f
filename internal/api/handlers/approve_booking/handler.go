package approve_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	approveBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/approve_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	useCase ApproveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ApproveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// ApproveResponse HTTP response model
type ApproveResponse struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	DecidedBy int64  `json:"decidedBy"`
	DecidedAt string `json:"decidedAt"`
}

// Handle PATCH /api/v1/reservations/{reservationId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/approve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &approveBooking.Request{
		BookingID: bookingID,
		ActorID:   userID,
	})
	if err != nil {
		var transitionErr *domain.InvalidStateTransitionError
		switch {
		case errors.Is(err, approveBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /reservations/{id}/approve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, approveBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/approve - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.As(err, &transitionErr):
			h.logger.Warn("PATCH /reservations/{id}/approve - Invalid transition: booking_id=%d, from=%s",
				bookingID, transitionErr.From)
			handlers.RespondConflict(w, fmt.Sprintf("недопустимый переход статуса: %s -> %s",
				transitionErr.From, transitionErr.To))

		case errors.Is(err, approveBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/approve - Invalid input: booking_id=%d: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("PATCH /reservations/{id}/approve - Failed to approve booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/approve - Booking approved: booking_id=%d, user_id=%d", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, ApproveResponse{
		ID:        result.ID,
		Status:    result.Status,
		DecidedBy: result.DecidedBy,
		DecidedAt: result.DecidedAt.Format(time.RFC3339),
	})
}
