package slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	List(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error)
	Count(ctx context.Context, filter domain.SlotsFilter) (int, error)
	ExistsOverlap(ctx context.Context, practitionerID int64, start, end time.Time) (bool, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	DeleteByPractitionerInRange(ctx context.Context, practitionerID int64, from, to time.Time, onlyFree bool) ([]uuid.UUID, error)
	ReassignFree(ctx context.Context, ids []uuid.UUID, targetPractitionerID int64) ([]uuid.UUID, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics счетчики операций жизненного цикла
type Metrics interface {
	SlotsDeleted(n int)
	SlotsReassigned(n int)
	OverlapConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
