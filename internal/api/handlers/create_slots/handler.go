package create_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/service/slots"
	generateSlots "github.com/m04kA/SMC-SlotService/internal/usecase/generate_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDay         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInstant     = "некорректный формат start/end, ожидается ISO 8601"
	msgInvalidRange       = "некорректный диапазон дат, времени, длительности или перерыва"
	msgMissingFields      = "не заполнены обязательные поля"
	msgEmptyBatch         = "в заданном окне не удалось создать ни одного слота"
	msgOverlap            = "слот пересекается с существующим слотом врача"
)

type Handler struct {
	useCase  GenerateSlotsUseCase
	service  SlotService
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GenerateSlotsUseCase, service SlotService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.IsBatch() {
		h.handleBatch(w, r, &req)
		return
	}
	h.handleSingle(w, r, &req)
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request, req *CreateSlotsRequest) {
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /slots - Invalid day format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDay)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrMissingRequiredField):
			h.logger.Warn("POST /slots - Missing fields: %v", err)
			handlers.RespondBadRequest(w, msgMissingFields)

		case errors.Is(err, generateSlots.ErrInvalidRange):
			h.logger.Warn("POST /slots - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, generateSlots.ErrEmptyBatch):
			h.logger.Warn("POST /slots - Empty batch: practitioner_id=%d", req.PractitionerID)
			handlers.RespondBadRequest(w, msgEmptyBatch)

		case errors.Is(err, generateSlots.ErrOverlapConflict):
			h.logger.Warn("POST /slots - Overlap conflict: practitioner_id=%d", req.PractitionerID)
			handlers.RespondConflict(w, msgOverlap)

		default:
			h.logger.Error("POST /slots - Failed to generate slots: practitioner_id=%d, error=%v", req.PractitionerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slots generated: practitioner_id=%d, count=%d", req.PractitionerID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) handleSingle(w http.ResponseWriter, r *http.Request, req *CreateSlotsRequest) {
	serviceReq, err := req.ToServiceRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /slots - Invalid start/end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInstant)
		return
	}

	slot, err := h.service.CreateSingle(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrMissingRequiredField):
			h.logger.Warn("POST /slots - Missing fields: %v", err)
			handlers.RespondBadRequest(w, msgMissingFields)

		case errors.Is(err, slots.ErrInvalidRange):
			h.logger.Warn("POST /slots - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, slots.ErrOverlapConflict):
			h.logger.Warn("POST /slots - Overlap conflict: practitioner_id=%d", req.PractitionerID)
			handlers.RespondConflict(w, msgOverlap)

		default:
			h.logger.Error("POST /slots - Failed to create slot: practitioner_id=%d, error=%v", req.PractitionerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created: slot_id=%s", slot.ID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
