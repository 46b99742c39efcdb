package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByPractitionerInRange(ctx context.Context, practitionerID int64, from, to time.Time) ([]*domain.Slot, error)
	BulkInsert(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики генерации
type Metrics interface {
	SlotsGenerated(created, skipped int)
	OverlapConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
