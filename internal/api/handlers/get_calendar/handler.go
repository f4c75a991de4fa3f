package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/calendar"
)

const (
	msgInvalidWindow  = "некорректное временное окно, ожидается start и end в формате RFC3339"
	msgInvalidRoomIDs = "некорректный список room_ids"
	msgInvalidInput   = "некорректные параметры запроса"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/calendar?start=&end=&room_ids=1,2,3
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	startTime, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /reservations/calendar - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}
	endTime, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.logger.Warn("GET /reservations/calendar - Invalid end time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	var roomIDs []int64
	if raw := query.Get("room_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil || id <= 0 {
				h.logger.Warn("GET /reservations/calendar - Invalid room_ids=%q", raw)
				handlers.RespondBadRequest(w, msgInvalidRoomIDs)
				return
			}
			roomIDs = append(roomIDs, id)
		}
	}

	result, err := h.service.GetCalendar(r.Context(), &calendar.GetCalendarRequest{
		StartTime: startTime,
		EndTime:   endTime,
		RoomIDs:   roomIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("GET /reservations/calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /reservations/calendar - Failed to get calendar: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations/calendar - Retrieved %d entries", len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}
