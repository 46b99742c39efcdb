package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlotState состояние слота
type SlotState string

const (
	SlotStateFree     SlotState = "free"
	SlotStateReserved SlotState = "reserved"
)

// Slot бронируемый интервал времени врача [Start, End)
type Slot struct {
	ID             uuid.UUID
	PractitionerID int64
	Start          time.Time
	End            time.Time
	Reserved       bool
	BookingRef     *int64 // ID записи на прием; заполняется внешним процессом бронирования

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewFreeSlot создает новый свободный слот с новым ID
func NewFreeSlot(practitionerID int64, start, end time.Time) *Slot {
	return &Slot{
		ID:             uuid.New(),
		PractitionerID: practitionerID,
		Start:          start,
		End:            end,
	}
}

// State возвращает состояние слота
func (s *Slot) State() SlotState {
	if s.Reserved {
		return SlotStateReserved
	}
	return SlotStateFree
}

// IsFree свободен ли слот
func (s *Slot) IsFree() bool {
	return !s.Reserved
}

// CanBeReassigned можно ли перенести слот на другого врача
func (s *Slot) CanBeReassigned() bool {
	return !s.Reserved
}

// CanBeDeleted можно ли удалить слот при очистке дня
func (s *Slot) CanBeDeleted() bool {
	return !s.Reserved
}

// Duration длительность слота
func (s *Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// IsValid проверяет инвариант Start < End
func (s *Slot) IsValid() bool {
	return s.Start.Before(s.End)
}

// Overlaps проверяет пересечение слота с интервалом [start, end)
func (s *Slot) Overlaps(start, end time.Time) bool {
	return Overlaps(s.Start, s.End, start, end)
}

// SlotsFilter фильтр для выборки слотов
type SlotsFilter struct {
	From           time.Time // start >= From
	To             time.Time // start < To
	PractitionerID *int64    // nil - все врачи
	OnlyAvailable  bool      // исключить зарезервированные
	Limit          int
	Offset         int
}
