package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrMissingRequiredField возвращается, когда не передана обязательная комбинация полей
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidRange возвращается при некорректном интервале слота
	ErrInvalidRange = errors.New("invalid range")

	// ErrOverlapConflict возвращается, когда слот пересекается с существующим слотом врача
	ErrOverlapConflict = errors.New("slot overlaps an existing slot")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
