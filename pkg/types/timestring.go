package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени (ожидается HH:MM)
var ErrInvalidTimeString = errors.New("types: invalid time string, expected HH:MM")

const minutesPerDay = 24 * 60

// TimeString время суток в формате "HH:MM" (без даты и часового пояса)
type TimeString string

// Validate проверяет формат HH:MM и диапазоны часов/минут
func (t TimeString) Validate() error {
	_, err := t.parse()
	return err
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() int {
	m, err := t.parse()
	if err != nil {
		return 0
	}
	return m
}

// On привязывает время суток к календарному дню в указанной локации.
// Используются только год, месяц и день из day.
func (t TimeString) On(day time.Time, loc *time.Location) time.Time {
	m := t.Minutes()
	return time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc)
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) parse() (int, error) {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	// 24:00 допускается как конец рабочего окна
	if hours == 24 && minutes == 0 {
		return minutesPerDay, nil
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	return hours*60 + minutes, nil
}
