package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// interval кандидат [start, end)
type interval struct {
	start time.Time
	end   time.Time
}

// walkDay проходит окно [windowStart, windowEnd) курсором.
// Кандидат, пересекающийся с существующим слотом, не сдвигает курсор на шаг,
// а переносит его на конец конфликтующего слота плюс перерыв.
// Новая позиция снова проверяется на следующей итерации.
// index == nil отключает проверку пересечений.
func walkDay(windowStart, windowEnd time.Time, duration, gap time.Duration, index *domain.SlotIndex) ([]interval, int) {
	accepted := make([]interval, 0)
	skipped := 0

	cursor := windowStart
	for !cursor.Add(duration).After(windowEnd) {
		candidate := interval{start: cursor, end: cursor.Add(duration)}

		if index != nil {
			if conflict, ok := index.FindConflict(candidate.start, candidate.end); ok {
				skipped++
				cursor = conflict.End.Add(gap)
				continue
			}
		}

		accepted = append(accepted, candidate)
		cursor = candidate.end.Add(gap)
	}

	return accepted, skipped
}
