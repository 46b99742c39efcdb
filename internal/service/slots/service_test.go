package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/infra/storage/slotmem"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
	"github.com/m04kA/SMC-SlotService/pkg/txmanager"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, time.UTC)
}

func newService(repo SlotRepository) *Service {
	s := NewService(repo, txmanager.Noop{}, time.UTC, (*metrics.Metrics)(nil), logger.NewNop())
	s.timeProvider = fixedTime{now: now}
	return s
}

func free(practitionerID int64, start time.Time) *domain.Slot {
	return domain.NewFreeSlot(practitionerID, start, start.Add(30*time.Minute))
}

func booked(practitionerID int64, start time.Time) *domain.Slot {
	s := free(practitionerID, start)
	s.Reserved = true
	s.BookingRef = ptr.Ptr(int64(500))
	return s
}

func TestList_DefaultsAndOrdering(t *testing.T) {
	repo := slotmem.NewRepository()
	late := free(1, at(4, 10, 0))
	early := free(2, at(3, 9, 0))
	reservedSlot := booked(1, at(3, 11, 0))
	past := free(1, at(2, 9, 0))
	repo.Seed(late, early, reservedSlot, past)

	resp, err := newService(repo).List(context.Background(), &models.ListRequest{})
	require.NoError(t, err)

	assert.True(t, resp.From.Equal(now))
	assert.True(t, resp.To.Equal(now.Add(domain.DefaultQuerySpan)))
	assert.Equal(t, domain.DefaultListLimit, resp.Limit)
	require.Len(t, resp.Slots, 2, "reserved and past slots are excluded by default")
	assert.Equal(t, early.ID, resp.Slots[0].ID)
	assert.Equal(t, late.ID, resp.Slots[1].ID)
	assert.Equal(t, 2, resp.Total)
}

func TestList_Filters(t *testing.T) {
	repo := slotmem.NewRepository()
	repo.Seed(free(1, at(3, 9, 0)), booked(1, at(3, 10, 0)), free(2, at(3, 9, 0)))
	svc := newService(repo)

	resp, err := svc.List(context.Background(), &models.ListRequest{
		PractitionerID: ptr.Ptr(int64(1)),
		OnlyAvailable:  ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	for _, s := range resp.Slots {
		assert.Equal(t, int64(1), s.PractitionerID)
	}
}

func TestList_RangeClamp(t *testing.T) {
	from := at(1, 0, 0)
	to := from.AddDate(0, 3, 0)

	resp, err := newService(slotmem.NewRepository()).List(context.Background(), &models.ListRequest{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuerySpan, resp.To.Sub(resp.From))
}

func TestList_Pagination(t *testing.T) {
	repo := slotmem.NewRepository()
	for i := 0; i < 5; i++ {
		repo.Seed(free(1, at(3, 9+i, 0)))
	}
	svc := newService(repo)

	resp, err := svc.List(context.Background(), &models.ListRequest{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, at(3, 12, 0), resp.Slots[0].Start)

	resp, err = svc.List(context.Background(), &models.ListRequest{Limit: 10_000, Offset: -4})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxListLimit, resp.Limit)
	assert.Zero(t, resp.Offset)
	assert.Equal(t, 5, resp.Count)
}

func TestGetByID(t *testing.T) {
	repo := slotmem.NewRepository()
	freeSlot := free(1, at(3, 9, 0))
	reservedSlot := booked(1, at(3, 10, 0))
	repo.Seed(freeSlot, reservedSlot)
	svc := newService(repo)

	got, err := svc.GetByID(context.Background(), freeSlot.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "free", got.State)

	_, err = svc.GetByID(context.Background(), reservedSlot.ID, true)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	got, err = svc.GetByID(context.Background(), reservedSlot.ID, false)
	require.NoError(t, err)
	assert.True(t, got.Reserved)
	assert.Equal(t, int64(500), *got.BookingRef)

	_, err = svc.GetByID(context.Background(), uuid.New(), false)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestCreateSingle(t *testing.T) {
	repo := slotmem.NewRepository()
	repo.Seed(booked(1, at(3, 9, 0)))
	svc := newService(repo)

	created, err := svc.CreateSingle(context.Background(), &models.CreateSlotRequest{
		Start: at(3, 9, 30), End: at(3, 10, 0), PractitionerID: 1,
	})
	require.NoError(t, err)
	assert.False(t, created.Reserved)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = svc.CreateSingle(context.Background(), &models.CreateSlotRequest{
		Start: at(3, 9, 15), End: at(3, 9, 45), PractitionerID: 1,
	})
	assert.ErrorIs(t, err, ErrOverlapConflict)

	_, err = svc.CreateSingle(context.Background(), &models.CreateSlotRequest{
		Start: at(3, 10, 0), End: at(3, 10, 0), PractitionerID: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.CreateSingle(context.Background(), &models.CreateSlotRequest{Start: at(3, 10, 0), End: at(3, 11, 0)})
	assert.ErrorIs(t, err, ErrMissingRequiredField)

	assert.Len(t, repo.All(), 2)
}

func TestDeleteByIDs_NoReservationGuard(t *testing.T) {
	repo := slotmem.NewRepository()
	a := free(1, at(3, 9, 0))
	b := booked(1, at(3, 10, 0))
	repo.Seed(a, b)

	resp, err := newService(repo).DeleteByIDs(context.Background(), []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Deleted)
	assert.Empty(t, repo.All())

	_, err = newService(repo).DeleteByIDs(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestDeleteByDay_KeepsReservedByDefault(t *testing.T) {
	repo := slotmem.NewRepository()
	a := free(1, at(3, 9, 0))
	b := booked(1, at(3, 10, 0))
	otherDay := free(1, at(4, 9, 0))
	otherPractitioner := free(2, at(3, 9, 0))
	repo.Seed(a, b, otherDay, otherPractitioner)
	svc := newService(repo)

	resp, err := svc.DeleteByDay(context.Background(), &models.DeleteByDayRequest{Day: at(3, 0, 0), PractitionerID: 1})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, resp.DeletedIDs)

	remaining := repo.All()
	assert.Len(t, remaining, 3)
	kept, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, kept.Reserved)

	resp, err = svc.DeleteByDay(context.Background(), &models.DeleteByDayRequest{
		Day: at(3, 0, 0), PractitionerID: 1, OnlyFree: ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, resp.DeletedIDs)
}

func TestDeleteByDay_ClinicTimezone(t *testing.T) {
	repo := slotmem.NewRepository()
	// 22:30 UTC 2 июня - это 01:30 3 июня по UTC+3
	s := free(1, time.Date(2024, 6, 2, 22, 30, 0, 0, time.UTC))
	repo.Seed(s)

	svc := NewService(repo, txmanager.Noop{}, time.FixedZone("UTC+3", 3*60*60), (*metrics.Metrics)(nil), logger.NewNop())

	resp, err := svc.DeleteByDay(context.Background(), &models.DeleteByDayRequest{Day: at(3, 0, 0), PractitionerID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Deleted)
}

func TestDeleteByDay_MissingFields(t *testing.T) {
	_, err := newService(slotmem.NewRepository()).DeleteByDay(context.Background(), &models.DeleteByDayRequest{Day: at(3, 0, 0)})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestReassign_OnlyFree(t *testing.T) {
	repo := slotmem.NewRepository()
	a := free(1, at(3, 9, 0))
	b := booked(1, at(3, 10, 0))
	repo.Seed(a, b)
	missing := uuid.New()

	resp, err := newService(repo).Reassign(context.Background(), &models.ReassignRequest{
		IDs:                  []uuid.UUID{a.ID, b.ID, missing, a.ID},
		TargetPractitionerID: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, resp.ReassignedIDs)
	assert.Equal(t, []uuid.UUID{b.ID, missing}, resp.SkippedIDs)

	movedA, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), movedA.PractitionerID)

	keptB, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), keptB.PractitionerID)
	assert.True(t, keptB.Reserved)
}

func TestReassign_OverlapAtTarget(t *testing.T) {
	repo := slotmem.NewRepository()
	a := free(1, at(3, 9, 0))
	repo.Seed(a, free(7, at(3, 9, 15)))

	_, err := newService(repo).Reassign(context.Background(), &models.ReassignRequest{
		IDs: []uuid.UUID{a.ID}, TargetPractitionerID: 7,
	})
	assert.ErrorIs(t, err, ErrOverlapConflict)

	unchanged, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unchanged.PractitionerID)
}

func TestReassign_MissingFields(t *testing.T) {
	_, err := newService(slotmem.NewRepository()).Reassign(context.Background(), &models.ReassignRequest{TargetPractitionerID: 3})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

type failingRepo struct {
	SlotRepository
}

func (failingRepo) List(context.Context, domain.SlotsFilter) ([]*domain.Slot, error) {
	return nil, errors.New("connection refused")
}

func TestList_StoreFailure(t *testing.T) {
	_, err := newService(failingRepo{}).List(context.Background(), &models.ListRequest{})
	assert.ErrorIs(t, err, ErrInternal)
}

type snapshotKey struct{}

// recordingTx помечает контекст и считает вызовы по видам транзакций
type recordingTx struct {
	do, readOnly int
}

func (r *recordingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	r.do++
	return fn(ctx)
}

func (r *recordingTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	r.readOnly++
	return fn(context.WithValue(ctx, snapshotKey{}, true))
}

// snapshotRepo запоминает, выполнялись ли чтения внутри read-only транзакции
type snapshotRepo struct {
	SlotRepository
	listInTx, countInTx bool
}

func (r *snapshotRepo) List(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	r.listInTx = ctx.Value(snapshotKey{}) != nil
	return r.SlotRepository.List(ctx, filter)
}

func (r *snapshotRepo) Count(ctx context.Context, filter domain.SlotsFilter) (int, error) {
	r.countInTx = ctx.Value(snapshotKey{}) != nil
	return r.SlotRepository.Count(ctx, filter)
}

func TestList_PageAndTotalShareSnapshot(t *testing.T) {
	mem := slotmem.NewRepository()
	mem.Seed(free(1, at(3, 9, 0)), free(1, at(3, 10, 0)), free(1, at(3, 11, 0)))

	repo := &snapshotRepo{SlotRepository: mem}
	tx := &recordingTx{}
	svc := NewService(repo, tx, time.UTC, (*metrics.Metrics)(nil), logger.NewNop())
	svc.timeProvider = fixedTime{now: now}

	resp, err := svc.List(context.Background(), &models.ListRequest{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1, tx.readOnly)
	assert.Zero(t, tx.do)
	assert.True(t, repo.listInTx)
	assert.True(t, repo.countInTx)
}
