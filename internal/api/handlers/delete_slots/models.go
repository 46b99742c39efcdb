package delete_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

// DeleteSlotsRequest тело DELETE /slots: либо ids, либо day + practitionerId
type DeleteSlotsRequest struct {
	IDs            []string `json:"ids,omitempty"`
	Day            string   `json:"day,omitempty"`
	PractitionerID int64    `json:"practitionerId,omitempty"`
	OnlyFree       *bool    `json:"onlyFree,omitempty"`
}

// ByIDs true, если передан список ID
func (r *DeleteSlotsRequest) ByIDs() bool {
	return len(r.IDs) > 0
}

// ByDay true, если переданы день и врач
func (r *DeleteSlotsRequest) ByDay() bool {
	return r.Day != "" && r.PractitionerID > 0
}

// ParseIDs разбирает список ID
func ParseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ToDeleteByDayRequest конвертирует форму "день + врач" в запрос сервиса
func (r *DeleteSlotsRequest) ToDeleteByDayRequest() (*models.DeleteByDayRequest, error) {
	day, err := handlers.ParseDay(r.Day)
	if err != nil {
		return nil, err
	}
	return &models.DeleteByDayRequest{
		Day:            day,
		PractitionerID: r.PractitionerID,
		OnlyFree:       r.OnlyFree,
	}, nil
}
