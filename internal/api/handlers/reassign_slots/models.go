package reassign_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

// ReassignSlotsRequest тело PATCH /slots
type ReassignSlotsRequest struct {
	IDs                  []string `json:"ids"`
	TargetPractitionerID int64    `json:"targetPractitionerId"`
}

// ToServiceRequest конвертирует тело запроса в запрос сервиса
func (r *ReassignSlotsRequest) ToServiceRequest() (*models.ReassignRequest, error) {
	ids := make([]uuid.UUID, 0, len(r.IDs))
	for _, s := range r.IDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return &models.ReassignRequest{
		IDs:                  ids,
		TargetPractitionerID: r.TargetPractitionerID,
	}, nil
}
