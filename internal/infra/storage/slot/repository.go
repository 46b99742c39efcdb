package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

const table = "slots"

var slotColumns = []string{
	"id",
	"practitioner_id",
	"start_at",
	"end_at",
	"reserved",
	"booking_ref",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов (PostgreSQL)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает один слот
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	created, err := r.BulkInsert(ctx, []*domain.Slot{slot})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// BulkInsert вставляет пачку слотов одним запросом.
// Пересечение с существующим слотом того же врача отклоняется ограничением
// slots_no_overlap целиком для всей пачки (ErrOverlapConflict).
func (r *Repository) BulkInsert(ctx context.Context, slots []*domain.Slot) ([]*domain.Slot, error) {
	if len(slots) == 0 {
		return []*domain.Slot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	byID := make(map[uuid.UUID]*domain.Slot, len(slots))
	for _, s := range slots {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		byID[s.ID] = s
	}

	query, args, err := insertQuery(slots).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: BulkInsert - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("BulkInsert - execute insert", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&id, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: BulkInsert - scan returning: %v", ErrScanRow, err)
		}
		if s, ok := byID[id]; ok {
			s.CreatedAt = createdAt.Time
			s.UpdatedAt = updatedAt.Time
		}
	}

	// Ошибка ограничения может прийти только при итерации по строкам
	if err := rows.Err(); err != nil {
		return nil, execError("BulkInsert - rows error", err)
	}

	return slots, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(table).
		Where(squirrel.Eq{"id": id.String()}). // uuid.UUID - массив, squirrel развернул бы его в IN
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// List получает слоты по фильтру, отсортированные по началу
func (r *Repository) List(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(psqlbuilder.Select(slotColumns...).From(table), filter).
		OrderBy("start_at ASC", "practitioner_id ASC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("List - execute query", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Count считает слоты по фильтру без учета пагинации
func (r *Repository) Count(ctx context.Context, filter domain.SlotsFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select("COUNT(*)").From(table), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Count - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: Count - scan count: %v", ErrScanRow, err)
	}

	return total, nil
}

// ListByPractitionerInRange получает все слоты врача, пересекающиеся с [from, to)
// Используется как снимок для проверки пересечений при генерации
func (r *Repository) ListByPractitionerInRange(ctx context.Context, practitionerID int64, from, to time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(table).
		Where(squirrel.Eq{"practitioner_id": practitionerID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPractitionerInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("ListByPractitionerInRange - execute query", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ExistsOverlap проверяет, есть ли у врача слот, пересекающийся с [start, end)
func (r *Repository) ExistsOverlap(ctx context.Context, practitionerID int64, start, end time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := existsOverlapQuery(practitionerID, start, end).ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsOverlap - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsOverlap - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// DeleteByIDs удаляет слоты с указанными ID без проверки резервирования.
// Возвращает ID фактически удаленных слотов.
func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": idStrings(ids)}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	return r.queryIDs(ctx, "DeleteByIDs", query, args)
}

// DeleteByPractitionerInRange удаляет слоты врача, начинающиеся в [from, to).
// При onlyFree = true зарезервированные слоты не затрагиваются.
func (r *Repository) DeleteByPractitionerInRange(ctx context.Context, practitionerID int64, from, to time.Time, onlyFree bool) ([]uuid.UUID, error) {
	query, args, err := deleteInRangeQuery(practitionerID, from, to, onlyFree).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByPractitionerInRange - build delete query: %v", ErrBuildQuery, err)
	}

	return r.queryIDs(ctx, "DeleteByPractitionerInRange", query, args)
}

// ReassignFree переназначает на другого врача только свободные слоты из ids.
// Возвращает ID фактически измененных слотов.
func (r *Repository) ReassignFree(ctx context.Context, ids []uuid.UUID, targetPractitionerID int64) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	query, args, err := reassignFreeQuery(ids, targetPractitionerID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReassignFree - build update query: %v", ErrBuildQuery, err)
	}

	return r.queryIDs(ctx, "ReassignFree", query, args)
}

func (r *Repository) queryIDs(ctx context.Context, op string, query string, args []interface{}) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError(op+" - execute query", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %s - scan id: %v", ErrScanRow, op, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, execError(op+" - rows error", err)
	}

	return ids, nil
}

func insertQuery(slots []*domain.Slot) squirrel.InsertBuilder {
	builder := psqlbuilder.Insert(table).
		Columns("id", "practitioner_id", "start_at", "end_at", "reserved", "booking_ref")
	for _, s := range slots {
		builder = builder.Values(s.ID.String(), s.PractitionerID, s.Start, s.End, s.Reserved, s.BookingRef)
	}
	return builder.Suffix("RETURNING id, created_at, updated_at")
}

// existsOverlapQuery SELECT EXISTS по полуоткрытому пересечению start_at < end AND end_at > start
func existsOverlapQuery(practitionerID int64, start, end time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"practitioner_id": practitionerID}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		Prefix("SELECT EXISTS (").
		Suffix(")")
}

func deleteInRangeQuery(practitionerID int64, from, to time.Time, onlyFree bool) squirrel.DeleteBuilder {
	builder := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"practitioner_id": practitionerID}).
		Where(squirrel.GtOrEq{"start_at": from}).
		Where(squirrel.Lt{"start_at": to})

	if onlyFree {
		builder = builder.Where(squirrel.Eq{"reserved": false})
	}
	return builder.Suffix("RETURNING id")
}

// reassignFreeQuery зарезервированные слоты отсекаются условием reserved = false
func reassignFreeQuery(ids []uuid.UUID, targetPractitionerID int64) squirrel.UpdateBuilder {
	return psqlbuilder.Update(table).
		Set("practitioner_id", targetPractitionerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": idStrings(ids)}).
		Where(squirrel.Eq{"reserved": false}).
		Suffix("RETURNING id")
}

func applyFilter(b squirrel.SelectBuilder, filter domain.SlotsFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.GtOrEq{"start_at": filter.From}).
		Where(squirrel.Lt{"start_at": filter.To})

	if filter.PractitionerID != nil {
		b = b.Where(squirrel.Eq{"practitioner_id": *filter.PractitionerID})
	}
	if filter.OnlyAvailable {
		b = b.Where(squirrel.Eq{"reserved": false})
	}
	return b
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	var bookingRef sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.PractitionerID,
		&slot.Start,
		&slot.End,
		&slot.Reserved,
		&bookingRef,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bookingRef.Valid {
		ref := bookingRef.Int64
		slot.BookingRef = &ref
	}
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
