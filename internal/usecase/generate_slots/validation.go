package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
)

// params проверенные и дополненные значениями по умолчанию параметры генерации
type params struct {
	days         []time.Time
	duration     time.Duration
	gap          time.Duration
	avoidOverlap bool
}

// validateRequest валидирует запрос и подставляет значения по умолчанию
func validateRequest(req *Request) (*params, error) {
	if req.PractitionerID <= 0 {
		return nil, fmt.Errorf("%w: practitionerId is required", ErrMissingRequiredField)
	}

	if req.DayFrom.IsZero() {
		return nil, fmt.Errorf("%w: dayFrom is required", ErrMissingRequiredField)
	}

	if req.TimeStart.IsZero() || req.TimeEnd.IsZero() {
		return nil, fmt.Errorf("%w: timeStart and timeEnd are required", ErrMissingRequiredField)
	}

	if err := req.TimeStart.Validate(); err != nil {
		return nil, fmt.Errorf("%w: timeStart: %v", ErrInvalidRange, err)
	}
	if err := req.TimeEnd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: timeEnd: %v", ErrInvalidRange, err)
	}

	duration := ptr.ValueOr(req.DurationMinutes, domain.DefaultSlotDurationMinutes)
	if duration <= 0 {
		return nil, fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidRange)
	}

	gap := ptr.ValueOr(req.GapMinutes, domain.DefaultGapMinutes)
	if gap < 0 {
		return nil, fmt.Errorf("%w: gapMinutes must not be negative", ErrInvalidRange)
	}

	days, err := calendarDays(req.DayFrom, ptr.ValueOr(req.DayTo, req.DayFrom))
	if err != nil {
		return nil, err
	}

	return &params{
		days:         days,
		duration:     time.Duration(duration) * time.Minute,
		gap:          time.Duration(gap) * time.Minute,
		avoidOverlap: ptr.ValueOr(req.AvoidOverlap, true),
	}, nil
}

// calendarDays перечисляет календарные дни [from, to] включительно.
// Дни хранятся в UTC, используются только год, месяц и день.
func calendarDays(from, to time.Time) ([]time.Time, error) {
	first := dateOnly(from)
	last := dateOnly(to)

	if last.Before(first) {
		return nil, fmt.Errorf("%w: dayTo %s is before dayFrom %s",
			ErrInvalidRange, last.Format(domain.DateFormat), first.Format(domain.DateFormat))
	}

	count := int(last.Sub(first).Hours()/24) + 1
	if count > domain.MaxGenerationDays {
		return nil, fmt.Errorf("%w: at most %d days per request, got %d",
			ErrInvalidRange, domain.MaxGenerationDays, count)
	}

	days := make([]time.Time, 0, count)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
