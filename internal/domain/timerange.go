package domain

import "time"

// TimeRange интервал запроса [From, To]
type TimeRange struct {
	From time.Time
	To   time.Time
}

// NormalizeRange приводит окно запроса к безопасному виду:
//   - from не задан -> now
//   - to не задан или раньше from -> from + DefaultQuerySpan
//   - to - from > MaxQuerySpan -> to = from + MaxQuerySpan
//
// Никогда не возвращает ошибку.
func NormalizeRange(from, to *time.Time, now time.Time) TimeRange {
	r := TimeRange{From: now}
	if from != nil && !from.IsZero() {
		r.From = *from
	}

	if to != nil && !to.IsZero() && !to.Before(r.From) {
		r.To = *to
	} else {
		r.To = r.From.Add(DefaultQuerySpan)
	}

	if r.To.Sub(r.From) > MaxQuerySpan {
		r.To = r.From.Add(MaxQuerySpan)
	}

	return r
}

// Normalize повторно нормализует окно (идемпотентно)
func (r TimeRange) Normalize() TimeRange {
	return NormalizeRange(&r.From, &r.To, r.From)
}

// Span длительность окна
func (r TimeRange) Span() time.Duration {
	return r.To.Sub(r.From)
}

// DayBounds возвращает границы календарного дня [00:00, 00:00 следующего дня) в локации loc.
// Используются только год, месяц и день из day.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
