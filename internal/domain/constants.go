package domain

import "time"

// Slot generation defaults and limits.
// Длина слота сверху ограничена только рабочим окном дня.
const (
	DefaultSlotDurationMinutes = 30
	DefaultGapMinutes          = 0

	// MaxGenerationDays максимальное количество дней в одном запросе генерации
	MaxGenerationDays = 31
)

// Availability query limits
const (
	DefaultQuerySpan = 14 * 24 * time.Hour
	MaxQuerySpan     = 30 * 24 * time.Hour

	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
