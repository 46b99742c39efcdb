package create_slots

import (
	"context"

	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	generateSlots "github.com/m04kA/SMC-SlotService/internal/usecase/generate_slots"
)

type GenerateSlotsUseCase interface {
	Execute(ctx context.Context, req *generateSlots.Request) (*generateSlots.Response, error)
}

type SlotService interface {
	CreateSingle(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
