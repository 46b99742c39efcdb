package delete_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/service/slots"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidDay         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingFields      = "нужно передать ids или day и practitionerId"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/slots
// Body: {"ids": [...]} или {"day": "YYYY-MM-DD", "practitionerId": 1, "onlyFree": true}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req DeleteSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var (
		result *models.DeleteResponse
		err    error
	)

	switch {
	case req.ByIDs():
		ids, parseErr := ParseIDs(req.IDs)
		if parseErr != nil {
			h.logger.Warn("DELETE /slots - Invalid slot ID: %v", parseErr)
			handlers.RespondBadRequest(w, msgInvalidSlotID)
			return
		}
		result, err = h.service.DeleteByIDs(r.Context(), ids)

	case req.ByDay():
		serviceReq, parseErr := req.ToDeleteByDayRequest()
		if parseErr != nil {
			h.logger.Warn("DELETE /slots - Invalid day: %v", parseErr)
			handlers.RespondBadRequest(w, msgInvalidDay)
			return
		}
		result, err = h.service.DeleteByDay(r.Context(), serviceReq)

	default:
		h.logger.Warn("DELETE /slots - Missing ids or day/practitionerId")
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, slots.ErrMissingRequiredField):
			h.logger.Warn("DELETE /slots - Missing fields: %v", err)
			handlers.RespondBadRequest(w, msgMissingFields)

		default:
			h.logger.Error("DELETE /slots - Failed to delete slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots - Slots deleted: count=%d", result.Deleted)
	handlers.RespondJSON(w, http.StatusOK, result)
}
