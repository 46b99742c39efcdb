package slot

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrOverlapConflict возвращается, когда запись нарушает ограничение
	// на пересечение интервалов одного врача (slots_no_overlap)
	ErrOverlapConflict = errors.New("slot.repository: slot overlaps an existing slot")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)

// SQLSTATE 23P01 exclusion_violation
const exclusionViolation pq.ErrorCode = "23P01"

// execError оборачивает ошибку выполнения запроса.
// Нарушение ограничения исключения превращается в ErrOverlapConflict.
func execError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == exclusionViolation {
		return fmt.Errorf("%w: %s: %s", ErrOverlapConflict, op, pqErr.Message)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}
