package create_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	generateSlots "github.com/m04kA/SMC-SlotService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// CreateSlotsRequest тело POST /slots. Одна из двух форм:
//   - одиночный слот: start, end, practitionerId
//   - пакет: dayFrom, dayTo?, timeStart, timeEnd, durationMinutes?, gapMinutes?, practitionerId, avoidOverlap?
type CreateSlotsRequest struct {
	PractitionerID int64 `json:"practitionerId"`

	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	DayFrom         string `json:"dayFrom,omitempty"`
	DayTo           string `json:"dayTo,omitempty"`
	TimeStart       string `json:"timeStart,omitempty"`
	TimeEnd         string `json:"timeEnd,omitempty"`
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	GapMinutes      *int   `json:"gapMinutes,omitempty"`
	AvoidOverlap    *bool  `json:"avoidOverlap,omitempty"`
}

// IsBatch true, если передано хотя бы одно поле пакетной формы
func (r *CreateSlotsRequest) IsBatch() bool {
	return r.DayFrom != "" || r.DayTo != "" || r.TimeStart != "" || r.TimeEnd != ""
}

// ToUseCaseRequest конвертирует пакетную форму в запрос use case.
// Пустые поля передаются как есть, их проверяет use case.
func (r *CreateSlotsRequest) ToUseCaseRequest() (*generateSlots.Request, error) {
	req := &generateSlots.Request{
		PractitionerID:  r.PractitionerID,
		TimeStart:       types.TimeString(r.TimeStart),
		TimeEnd:         types.TimeString(r.TimeEnd),
		DurationMinutes: r.DurationMinutes,
		GapMinutes:      r.GapMinutes,
		AvoidOverlap:    r.AvoidOverlap,
	}

	if r.DayFrom != "" {
		day, err := handlers.ParseDay(r.DayFrom)
		if err != nil {
			return nil, err
		}
		req.DayFrom = day
	}

	if r.DayTo != "" {
		day, err := handlers.ParseDay(r.DayTo)
		if err != nil {
			return nil, err
		}
		req.DayTo = &day
	}

	return req, nil
}

// ToServiceRequest конвертирует одиночную форму в запрос сервиса
func (r *CreateSlotsRequest) ToServiceRequest(loc *time.Location) (*models.CreateSlotRequest, error) {
	req := &models.CreateSlotRequest{PractitionerID: r.PractitionerID}

	if r.Start != "" {
		start, err := handlers.ParseInstant(r.Start, loc)
		if err != nil {
			return nil, err
		}
		req.Start = start
	}

	if r.End != "" {
		end, err := handlers.ParseInstant(r.End, loc)
		if err != nil {
			return nil, err
		}
		req.End = end
	}

	return req, nil
}

// BatchResponse ответ на пакетную генерацию
type BatchResponse struct {
	Slots             []models.SlotResponse `json:"slots"`
	Count             int                   `json:"count"`
	Days              int                   `json:"days"`
	SkippedCandidates int                   `json:"skippedCandidates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *BatchResponse {
	return &BatchResponse{
		Slots:             models.FromDomainSlots(resp.Slots),
		Count:             len(resp.Slots),
		Days:              resp.Days,
		SkippedCandidates: resp.SkippedCandidates,
	}
}
