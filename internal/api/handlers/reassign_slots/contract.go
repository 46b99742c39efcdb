package reassign_slots

import (
	"context"

	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

type SlotService interface {
	Reassign(ctx context.Context, req *models.ReassignRequest) (*models.ReassignResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
