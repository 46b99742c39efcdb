package generate_slots

import "errors"

var (
	// ErrInvalidRange возвращается при некорректных днях, времени суток, длительности или шаге
	ErrInvalidRange = errors.New("generate_slots: invalid range")

	// ErrMissingRequiredField возвращается, когда не передано обязательное поле
	ErrMissingRequiredField = errors.New("generate_slots: missing required field")

	// ErrEmptyBatch возвращается, когда за весь диапазон не получилось ни одного слота.
	// Это ожидаемый исход для полностью занятого окна, а не сбой.
	ErrEmptyBatch = errors.New("generate_slots: no slots generated")

	// ErrOverlapConflict возвращается, когда хранилище отклонило пачку из-за пересечения
	// с параллельно созданным слотом
	ErrOverlapConflict = errors.New("generate_slots: slot overlaps an existing slot")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
