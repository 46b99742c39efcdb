package delete_slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

type SlotService interface {
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (*models.DeleteResponse, error)
	DeleteByDay(ctx context.Context, req *models.DeleteByDayRequest) (*models.DeleteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
