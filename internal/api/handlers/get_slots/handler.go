package get_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/service/slots"
)

const (
	msgInvalidSlotID         = "некорректный ID слота"
	msgInvalidPractitionerID = "некорректный ID врача"
	msgSlotNotFound          = "слот не найден"
)

type Handler struct {
	service  SlotService
	location *time.Location
	logger   Logger
}

func NewHandler(service SlotService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/slots
// Query params: slotId, from, to, veterinarianId (practitionerId), onlyAvailable, limit, offset
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Поиск одного слота игнорирует окно и пагинацию
	if raw := q.Get(paramSlotID); raw != "" {
		h.handleOne(w, r, raw, parseOnlyAvailable(q))
		return
	}

	practitionerID, ok := parsePractitionerID(q)
	if !ok {
		h.logger.Warn("GET /slots - Invalid practitioner ID: %q", q.Get(paramVeterinarianID)+q.Get(paramPractitionerID))
		handlers.RespondBadRequest(w, msgInvalidPractitionerID)
		return
	}

	result, err := h.service.List(r.Context(), ToServiceRequest(q, practitionerID, h.location))
	if err != nil {
		h.logger.Error("GET /slots - Failed to list slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots - Slots retrieved: count=%d, total=%d", result.Count, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleOne(w http.ResponseWriter, r *http.Request, raw string, onlyAvailable bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	slot, err := h.service.GetByID(r.Context(), id, onlyAvailable)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("GET /slots - Slot not found: slot_id=%s", id)
			handlers.RespondNotFound(w, msgSlotNotFound)

		default:
			h.logger.Error("GET /slots - Failed to get slot: slot_id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Slot retrieved: slot_id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
