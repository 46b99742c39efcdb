package slotmem

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestBulkInsert_Atomic(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	existing := domain.NewFreeSlot(1, at(10, 0), at(10, 30))
	_, err := repo.BulkInsert(ctx, []*domain.Slot{existing})
	require.NoError(t, err)

	batch := []*domain.Slot{
		domain.NewFreeSlot(1, at(9, 0), at(9, 30)),
		domain.NewFreeSlot(1, at(10, 15), at(10, 45)),
	}
	_, err = repo.BulkInsert(ctx, batch)
	assert.ErrorIs(t, err, slotRepo.ErrOverlapConflict)
	assert.Len(t, repo.All(), 1, "пачка с пересечением не должна вставиться частично")

	inBatch := []*domain.Slot{
		domain.NewFreeSlot(2, at(9, 0), at(9, 30)),
		domain.NewFreeSlot(2, at(9, 20), at(9, 50)),
	}
	_, err = repo.BulkInsert(ctx, inBatch)
	assert.ErrorIs(t, err, slotRepo.ErrOverlapConflict)

	abutting := []*domain.Slot{
		domain.NewFreeSlot(1, at(9, 30), at(10, 0)),
		domain.NewFreeSlot(1, at(10, 30), at(11, 0)),
		domain.NewFreeSlot(2, at(10, 0), at(10, 30)),
	}
	created, err := repo.BulkInsert(ctx, abutting)
	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Len(t, repo.All(), 4)
	assert.False(t, created[0].CreatedAt.IsZero())
}

func TestBulkInsert_InvalidInterval(t *testing.T) {
	repo := NewRepository()
	_, err := repo.BulkInsert(context.Background(), []*domain.Slot{domain.NewFreeSlot(1, at(10, 0), at(10, 0))})
	assert.ErrorIs(t, err, slotRepo.ErrExecQuery)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	s, err := repo.Create(ctx, domain.NewFreeSlot(1, at(9, 0), at(9, 30)))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Start, got.Start)

	got.PractitionerID = 99
	again, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.PractitionerID, "возвращается копия")

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, slotRepo.ErrSlotNotFound)
}

func TestListAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	repo.Seed(
		&domain.Slot{PractitionerID: 1, Start: at(9, 0), End: at(9, 30)},
		&domain.Slot{PractitionerID: 1, Start: at(9, 30), End: at(10, 0), Reserved: true},
		&domain.Slot{PractitionerID: 2, Start: at(9, 0), End: at(9, 30)},
		&domain.Slot{PractitionerID: 1, Start: at(12, 0), End: at(12, 30)},
	)

	filter := domain.SlotsFilter{From: at(9, 0), To: at(12, 0)}
	all, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].PractitionerID)
	assert.Equal(t, int64(2), all[1].PractitionerID)
	assert.Equal(t, at(9, 30), all[2].Start)

	filter.OnlyAvailable = true
	filter.PractitionerID = ptr.Ptr(int64(1))
	free, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, at(9, 0), free[0].Start)

	paged, err := repo.List(ctx, domain.SlotsFilter{From: day, To: day.Add(24 * time.Hour), Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, paged, 2)

	total, err := repo.Count(ctx, domain.SlotsFilter{From: day, To: day.Add(24 * time.Hour), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	beyond, err := repo.List(ctx, domain.SlotsFilter{From: day, To: day.Add(24 * time.Hour), Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestOverlapQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	repo.Seed(
		&domain.Slot{PractitionerID: 1, Start: at(9, 0), End: at(10, 0)},
		&domain.Slot{PractitionerID: 1, Start: at(11, 0), End: at(12, 0)},
	)

	exists, err := repo.ExistsOverlap(ctx, 1, at(9, 30), at(9, 45))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsOverlap(ctx, 1, at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.False(t, exists, "смежные интервалы не пересекаются")

	exists, err = repo.ExistsOverlap(ctx, 2, at(9, 0), at(10, 0))
	require.NoError(t, err)
	assert.False(t, exists)

	snapshot, err := repo.ListByPractitionerInRange(ctx, 1, at(9, 59), at(11, 1))
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
}

func TestDeleteByPractitionerInRange(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	free := &domain.Slot{PractitionerID: 1, Start: at(9, 0), End: at(9, 30)}
	reserved := &domain.Slot{PractitionerID: 1, Start: at(10, 0), End: at(10, 30), Reserved: true, BookingRef: ptr.Ptr(int64(5))}
	other := &domain.Slot{PractitionerID: 2, Start: at(9, 0), End: at(9, 30)}
	repo.Seed(free, reserved, other)

	deleted, err := repo.DeleteByPractitionerInRange(ctx, 1, day, day.Add(24*time.Hour), true)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{free.ID}, deleted)
	assert.Len(t, repo.All(), 2)

	deleted, err = repo.DeleteByPractitionerInRange(ctx, 1, day, day.Add(24*time.Hour), false)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{reserved.ID}, deleted)
}

func TestDeleteByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	reserved := &domain.Slot{PractitionerID: 1, Start: at(9, 0), End: at(9, 30), Reserved: true}
	repo.Seed(reserved)

	missing := uuid.New()
	deleted, err := repo.DeleteByIDs(ctx, []uuid.UUID{reserved.ID, missing})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{reserved.ID}, deleted)
	assert.Empty(t, repo.All())
}

func TestReassignFree(t *testing.T) {
	ctx := context.Background()

	t.Run("skips reserved and missing", func(t *testing.T) {
		repo := NewRepository()
		free := &domain.Slot{PractitionerID: 1, Start: at(9, 0), End: at(9, 30)}
		reserved := &domain.Slot{PractitionerID: 1, Start: at(9, 30), End: at(10, 0), Reserved: true}
		repo.Seed(free, reserved)

		moved, err := repo.ReassignFree(ctx, []uuid.UUID{free.ID, reserved.ID, uuid.New(), free.ID}, 2)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{free.ID}, moved)

		got, err := repo.GetByID(ctx, free.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.PractitionerID)

		got, err = repo.GetByID(ctx, reserved.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.PractitionerID)
	})

	t.Run("conflict at target rolls back", func(t *testing.T) {
		repo := NewRepository()
		a := &domain.Slot{PractitionerID: 1, Start: at(9, 0), End: at(9, 30)}
		b := &domain.Slot{PractitionerID: 1, Start: at(11, 0), End: at(11, 30)}
		busy := &domain.Slot{PractitionerID: 2, Start: at(11, 15), End: at(11, 45)}
		repo.Seed(a, b, busy)

		_, err := repo.ReassignFree(ctx, []uuid.UUID{a.ID, b.ID}, 2)
		assert.ErrorIs(t, err, slotRepo.ErrOverlapConflict)

		got, err := repo.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.PractitionerID)
	})

	t.Run("moved slots may replace each other", func(t *testing.T) {
		repo := NewRepository()
		a := &domain.Slot{PractitionerID: 1, Start: at(9, 0), End: at(9, 30)}
		repo.Seed(a)

		moved, err := repo.ReassignFree(ctx, []uuid.UUID{a.ID}, 1)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID}, moved)
	})
}
