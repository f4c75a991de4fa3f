package list_rooms

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/rooms"
)

const msgInvalidCategory = "некорректная категория комнаты"

type Handler struct {
	service RoomService
	logger  Logger
}

func NewHandler(service RoomService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms?category=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	categories := r.URL.Query()["category"]

	result, err := h.service.List(r.Context(), categories)
	if err != nil {
		switch {
		case errors.Is(err, rooms.ErrInvalidInput):
			h.logger.Warn("GET /rooms - Invalid category filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCategory)

		default:
			h.logger.Error("GET /rooms - Failed to list rooms: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /rooms - Retrieved %d rooms", len(result.Rooms))
	handlers.RespondJSON(w, http.StatusOK, result)
}
