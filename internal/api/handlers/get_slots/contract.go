package get_slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

type SlotService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.ListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID, onlyAvailable bool) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
