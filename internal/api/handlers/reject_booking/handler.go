package reject_booking

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
	rejectBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/reject_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgNotFound           = "бронирование не найдено"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgReasonRequired     = "причина отклонения обязательна"
)

type Handler struct {
	useCase RejectBookingUseCase
	logger  Logger
}

func NewHandler(useCase RejectBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// RejectRequest HTTP request model
type RejectRequest struct {
	Reason string `json:"reason"`
}

// RejectResponse HTTP response model
type RejectResponse struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	DecidedBy int64  `json:"decidedBy"`
	DecidedAt string `json:"decidedAt"`
	Reason    string `json:"reason"`
}

// Handle PATCH /api/v1/reservations/{reservationId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/reject - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/reject - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RejectRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rejectBooking.Request{
		BookingID: bookingID,
		ActorID:   userID,
		Reason:    req.Reason,
	})
	if err != nil {
		var transitionErr *domain.InvalidStateTransitionError
		switch {
		case errors.Is(err, rejectBooking.ErrReasonRequired):
			h.logger.Warn("PATCH /reservations/{id}/reject - Missing reason: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, rejectBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /reservations/{id}/reject - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rejectBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/reject - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.As(err, &transitionErr):
			h.logger.Warn("PATCH /reservations/{id}/reject - Invalid transition: booking_id=%d, from=%s",
				bookingID, transitionErr.From)
			handlers.RespondConflict(w, fmt.Sprintf("недопустимый переход статуса: %s -> %s",
				transitionErr.From, transitionErr.To))

		case errors.Is(err, rejectBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/reject - Invalid input: booking_id=%d: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /reservations/{id}/reject - Failed to reject booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/reject - Booking rejected: booking_id=%d, user_id=%d", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, RejectResponse{
		ID:        result.ID,
		Status:    result.Status,
		DecidedBy: result.DecidedBy,
		DecidedAt: result.DecidedAt.Format(time.RFC3339),
		Reason:    result.Reason,
	})
}
