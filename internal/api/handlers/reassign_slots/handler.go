package reassign_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/service/slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotID      = "некорректный ID слота"
	msgMissingFields      = "нужно передать ids и targetPractitionerId"
	msgOverlap            = "у врача уже есть слоты, пересекающиеся с переназначаемыми"
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

// Handle PATCH /api/v1/slots
// Body: {"ids": [...], "targetPractitionerId": 2}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReassignSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /slots - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.service.Reassign(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrMissingRequiredField):
			h.logger.Warn("PATCH /slots - Missing fields: %v", err)
			handlers.RespondBadRequest(w, msgMissingFields)

		case errors.Is(err, slots.ErrOverlapConflict):
			h.logger.Warn("PATCH /slots - Overlap conflict: target_practitioner_id=%d", req.TargetPractitionerID)
			handlers.RespondConflict(w, msgOverlap)

		default:
			h.logger.Error("PATCH /slots - Failed to reassign slots: target_practitioner_id=%d, error=%v",
				req.TargetPractitionerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /slots - Slots reassigned: target_practitioner_id=%d, reassigned=%d, skipped=%d",
		req.TargetPractitionerID, len(result.ReassignedIDs), len(result.SkippedIDs))
	handlers.RespondJSON(w, http.StatusOK, result)
}
