package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Request модель запроса на пакетную генерацию слотов
type Request struct {
	PractitionerID  int64            // ID врача
	DayFrom         time.Time        // Первый день (используются только год, месяц, день)
	DayTo           *time.Time       // Последний день включительно (по умолчанию DayFrom)
	TimeStart       types.TimeString // Начало окна в течение дня, "09:00"
	TimeEnd         types.TimeString // Конец окна в течение дня, "13:00"
	DurationMinutes *int             // Длительность слота (по умолчанию 30)
	GapMinutes      *int             // Перерыв между слотами (по умолчанию 0)
	AvoidOverlap    *bool            // Пропускать пересечения с существующими слотами (по умолчанию true)
}

// Response результат генерации
type Response struct {
	Slots             []*domain.Slot // Созданные слоты в порядке начала
	Days              int            // Количество обработанных дней
	SkippedCandidates int            // Кандидаты, отброшенные из-за пересечений
}
