package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// Request модели

// ListRequest запрос на выборку слотов
type ListRequest struct {
	From           *time.Time // Начало окна (по умолчанию сейчас)
	To             *time.Time // Конец окна (по умолчанию From + 14 дней, не более From + 30 дней)
	PractitionerID *int64     // Фильтр по врачу (опционально)
	OnlyAvailable  *bool      // Только свободные (по умолчанию true)
	Limit          int        // 1..500, по умолчанию 100
	Offset         int        // >= 0
}

// CreateSlotRequest запрос на создание одного слота
type CreateSlotRequest struct {
	Start          time.Time
	End            time.Time
	PractitionerID int64
}

// DeleteByDayRequest запрос на удаление слотов врача за день
type DeleteByDayRequest struct {
	Day            time.Time // Используются только год, месяц и день
	PractitionerID int64
	OnlyFree       *bool // По умолчанию true
}

// ReassignRequest запрос на переназначение слотов другому врачу
type ReassignRequest struct {
	IDs                  []uuid.UUID
	TargetPractitionerID int64
}

// Response модели

// SlotResponse слот в ответе API
type SlotResponse struct {
	ID             uuid.UUID `json:"id"`
	PractitionerID int64     `json:"practitionerId"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Reserved       bool      `json:"reserved"`
	State          string    `json:"state"`
	BookingRef     *int64    `json:"bookingRef,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ListResponse список слотов с эффективными параметрами выборки
type ListResponse struct {
	Slots  []SlotResponse `json:"slots"`
	From   time.Time      `json:"from"`
	To     time.Time      `json:"to"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Count  int            `json:"count"` // Количество слотов в ответе
	Total  int            `json:"total"` // Количество слотов по фильтру без пагинации
}

// DeleteResponse результат удаления
type DeleteResponse struct {
	DeletedIDs []uuid.UUID `json:"deletedIds"`
	Deleted    int         `json:"deleted"`
}

// ReassignResponse результат переназначения.
// SkippedIDs - зарезервированные или несуществующие слоты, которые не были изменены.
type ReassignResponse struct {
	TargetPractitionerID int64       `json:"targetPractitionerId"`
	ReassignedIDs        []uuid.UUID `json:"reassignedIds"`
	SkippedIDs           []uuid.UUID `json:"skippedIds"`
}

// FromDomainSlot конвертирует доменный слот в модель ответа
func FromDomainSlot(s *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		PractitionerID: s.PractitionerID,
		Start:          s.Start,
		End:            s.End,
		Reserved:       s.Reserved,
		State:          string(s.State()),
		BookingRef:     s.BookingRef,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// FromDomainSlots конвертирует список слотов, порядок сохраняется
func FromDomainSlots(slots []*domain.Slot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, FromDomainSlot(s))
	}
	return result
}

// NewDeleteResponse формирует ответ на удаление
func NewDeleteResponse(ids []uuid.UUID) *DeleteResponse {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return &DeleteResponse{DeletedIDs: ids, Deleted: len(ids)}
}
