package domain

import (
	"sort"
	"time"
)

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd).
// Интервалы, которые только касаются границами, НЕ пересекаются:
// - [09:00, 09:30) и [09:30, 10:00) → нет пересечения
// - [09:00, 09:30) и [09:15, 09:45) → есть пересечение
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// SlotIndex снимок существующих слотов одного врача для проверки пересечений в памяти.
// Слоты отсортированы по началу; maxEnd[i] - максимальный конец среди slots[0..i].
type SlotIndex struct {
	slots  []*Slot
	maxEnd []time.Time
}

// NewSlotIndex строит индекс. Входной слайс не модифицируется.
func NewSlotIndex(slots []*Slot) *SlotIndex {
	sorted := make([]*Slot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	maxEnd := make([]time.Time, len(sorted))
	for i, s := range sorted {
		maxEnd[i] = s.End
		if i > 0 && maxEnd[i-1].After(s.End) {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &SlotIndex{slots: sorted, maxEnd: maxEnd}
}

// Len количество слотов в индексе
func (idx *SlotIndex) Len() int {
	return len(idx.slots)
}

// FindConflict ищет существующий слот, пересекающийся с [start, end).
// Если пересечений несколько, возвращает слот с самым поздним концом,
// чтобы курсор генерации перепрыгнул сразу через все.
func (idx *SlotIndex) FindConflict(start, end time.Time) (*Slot, bool) {
	// Кандидаты - только слоты, начинающиеся строго до end
	n := sort.Search(len(idx.slots), func(i int) bool {
		return !idx.slots[i].Start.Before(end)
	})

	var conflict *Slot
	for i := n - 1; i >= 0; i-- {
		// Ни один слот левее не заканчивается после start
		if !idx.maxEnd[i].After(start) {
			break
		}
		s := idx.slots[i]
		if s.Overlaps(start, end) && (conflict == nil || s.End.After(conflict.End)) {
			conflict = s
		}
	}

	return conflict, conflict != nil
}
