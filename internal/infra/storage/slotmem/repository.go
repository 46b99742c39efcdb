// Package slotmem in-memory хранилище слотов с теми же гарантиями, что и PostgreSQL схема:
// пачка вставляется атомарно, пересечения интервалов одного врача отклоняются.
// Используется в тестах и при storage = "memory".
package slotmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
)

// Repository in-memory репозиторий слотов
type Repository struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]*domain.Slot
	now   func() time.Time
}

// NewRepository создает пустой репозиторий
func NewRepository() *Repository {
	return &Repository{
		slots: make(map[uuid.UUID]*domain.Slot),
		now:   time.Now,
	}
}

// Create создает один слот
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	created, err := r.BulkInsert(ctx, []*domain.Slot{slot})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// BulkInsert вставляет пачку атомарно: при любом пересечении не вставляется ничего
func (r *Repository) BulkInsert(_ context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range slots {
		if !s.IsValid() {
			return nil, fmt.Errorf("%w: BulkInsert - start must be before end", slotRepo.ErrExecQuery)
		}
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if _, exists := r.slots[s.ID]; exists {
			return nil, fmt.Errorf("%w: BulkInsert - duplicate id %s", slotRepo.ErrExecQuery, s.ID)
		}
		if r.overlapsLocked(s.PractitionerID, s.Start, s.End, nil) {
			return nil, fmt.Errorf("%w: BulkInsert - slot %s", slotRepo.ErrOverlapConflict, s.ID)
		}
		for _, other := range slots[:i] {
			if other.PractitionerID == s.PractitionerID && other.Overlaps(s.Start, s.End) {
				return nil, fmt.Errorf("%w: BulkInsert - batch slots %s and %s", slotRepo.ErrOverlapConflict, other.ID, s.ID)
			}
		}
	}

	now := r.now()
	for _, s := range slots {
		s.CreatedAt = now
		s.UpdatedAt = now
		r.slots[s.ID] = clone(s)
	}

	return slots, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return clone(s), nil
}

// List получает слоты по фильтру, отсортированные по началу
func (r *Repository) List(_ context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	r.mu.RLock()
	matched := r.matchLocked(filter)
	r.mu.RUnlock()

	if filter.Offset >= len(matched) {
		return []*domain.Slot{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Count считает слоты по фильтру без учета пагинации
func (r *Repository) Count(_ context.Context, filter domain.SlotsFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matchLocked(filter)), nil
}

// ListByPractitionerInRange получает все слоты врача, пересекающиеся с [from, to)
func (r *Repository) ListByPractitionerInRange(_ context.Context, practitionerID int64, from, to time.Time) ([]*domain.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Slot, 0)
	for _, s := range r.slots {
		if s.PractitionerID == practitionerID && s.Overlaps(from, to) {
			result = append(result, clone(s))
		}
	}
	sortByStart(result)
	return result, nil
}

// ExistsOverlap проверяет, есть ли у врача слот, пересекающийся с [start, end)
func (r *Repository) ExistsOverlap(_ context.Context, practitionerID int64, start, end time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overlapsLocked(practitionerID, start, end, nil), nil
}

// DeleteByIDs удаляет слоты с указанными ID без проверки резервирования
func (r *Repository) DeleteByIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.slots[id]; ok {
			delete(r.slots, id)
			deleted = append(deleted, id)
		}
	}
	return deleted, nil
}

// DeleteByPractitionerInRange удаляет слоты врача, начинающиеся в [from, to)
func (r *Repository) DeleteByPractitionerInRange(_ context.Context, practitionerID int64, from, to time.Time, onlyFree bool) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := make([]uuid.UUID, 0)
	for id, s := range r.slots {
		if s.PractitionerID != practitionerID || s.Start.Before(from) || !s.Start.Before(to) {
			continue
		}
		if onlyFree && !s.CanBeDeleted() {
			continue
		}
		delete(r.slots, id)
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// ReassignFree переназначает свободные слоты из ids на targetPractitionerID.
// Как и UPDATE в PostgreSQL, выполняется целиком или не выполняется.
func (r *Repository) ReassignFree(_ context.Context, ids []uuid.UUID, targetPractitionerID int64) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	moving := make(map[uuid.UUID]*domain.Slot)
	order := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		s, ok := r.slots[id]
		if !ok || !s.CanBeReassigned() {
			continue
		}
		if _, dup := moving[id]; dup {
			continue
		}
		moving[id] = s
		order = append(order, id)
	}

	for _, id := range order {
		s := moving[id]
		if r.overlapsLocked(targetPractitionerID, s.Start, s.End, moving) {
			return nil, fmt.Errorf("%w: ReassignFree - slot %s", slotRepo.ErrOverlapConflict, id)
		}
		for _, otherID := range order {
			other := moving[otherID]
			if otherID != id && other.Overlaps(s.Start, s.End) {
				return nil, fmt.Errorf("%w: ReassignFree - slots %s and %s", slotRepo.ErrOverlapConflict, otherID, id)
			}
		}
	}

	now := r.now()
	for _, id := range order {
		s := moving[id]
		s.PractitionerID = targetPractitionerID
		s.UpdatedAt = now
	}
	return order, nil
}

// Seed кладет слоты как есть (включая зарезервированные), минуя проверки.
// Нужен для подготовки состояния, которое создает внешний процесс бронирования.
func (r *Repository) Seed(slots ...*domain.Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range slots {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.slots[s.ID] = clone(s)
	}
}

// All возвращает все слоты, отсортированные по началу
func (r *Repository) All() []*domain.Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Slot, 0, len(r.slots))
	for _, s := range r.slots {
		result = append(result, clone(s))
	}
	sortByStart(result)
	return result
}

// overlapsLocked проверяет пересечение с сохраненными слотами врача, пропуская skip
func (r *Repository) overlapsLocked(practitionerID int64, start, end time.Time, skip map[uuid.UUID]*domain.Slot) bool {
	for id, s := range r.slots {
		if _, skipped := skip[id]; skipped {
			continue
		}
		if s.PractitionerID == practitionerID && s.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *Repository) matchLocked(filter domain.SlotsFilter) []*domain.Slot {
	result := make([]*domain.Slot, 0)
	for _, s := range r.slots {
		if s.Start.Before(filter.From) || !s.Start.Before(filter.To) {
			continue
		}
		if filter.PractitionerID != nil && s.PractitionerID != *filter.PractitionerID {
			continue
		}
		if filter.OnlyAvailable && !s.IsFree() {
			continue
		}
		result = append(result, clone(s))
	}
	sortByStart(result)
	return result
}

func sortByStart(slots []*domain.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Start.Equal(slots[j].Start) {
			return slots[i].PractitionerID < slots[j].PractitionerID
		}
		return slots[i].Start.Before(slots[j].Start)
	})
}

func clone(s *domain.Slot) *domain.Slot {
	c := *s
	if s.BookingRef != nil {
		ref := *s.BookingRef
		c.BookingRef = &ref
	}
	return &c
}
