package get_equipment_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
)

const (
	msgInvalidEquipmentID = "некорректный ID оборудования"
	msgInvalidWindow      = "некорректное временное окно, ожидается start и end в формате RFC3339"
	msgNotFound           = "оборудование не найдено"
)

type Handler struct {
	calculator EquipmentCalculator
	logger     Logger
}

func NewHandler(calculator EquipmentCalculator, logger Logger) *Handler {
	return &Handler{
		calculator: calculator,
		logger:     logger,
	}
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	EquipmentID       int64  `json:"equipmentId"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	AvailableQuantity int    `json:"availableQuantity"`
}

// Handle GET /api/v1/equipment/{equipmentId}/availability?start=&end=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	equipmentID, err := strconv.ParseInt(vars["equipmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /equipment/{id}/availability - Invalid equipment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEquipmentID)
		return
	}

	query := r.URL.Query()
	startTime, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /equipment/{id}/availability - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}
	endTime, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.logger.Warn("GET /equipment/{id}/availability - Invalid end time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow)
		return
	}

	window := domain.Interval{Start: startTime, End: endTime}
	quantity, err := h.calculator.AvailableQuantity(r.Context(), equipmentID, window)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrEquipmentNotFound):
			h.logger.Warn("GET /equipment/{id}/availability - Equipment not found: equipment_id=%d", equipmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrInvalidWindow):
			h.logger.Warn("GET /equipment/{id}/availability - Invalid window: equipment_id=%d", equipmentID)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("GET /equipment/{id}/availability - Failed to calculate availability: equipment_id=%d, error=%v",
				equipmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /equipment/{id}/availability - Availability calculated: equipment_id=%d, available=%d",
		equipmentID, quantity)
	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{
		EquipmentID:       equipmentID,
		StartTime:         startTime.Format(time.RFC3339),
		EndTime:           endTime.Format(time.RFC3339),
		AvailableQuantity: quantity,
	})
}
