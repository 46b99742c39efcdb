package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	opts  *sql.TxOptions
	calls int
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.calls++
	b.opts = opts
	b.tx = &fakeTx{}
	return b.tx, nil
}

func TestDo_Commit(t *testing.T) {
	b := &fakeBeginner{}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
	assert.Equal(t, sql.LevelReadCommitted, b.opts.Isolation)
}

func TestDo_RollbackOnError(t *testing.T) {
	b := &fakeBeginner{}
	m := NewTransactionManager(b)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, b.tx.rolledBack)
	assert.False(t, b.tx.committed)
}

func TestDoReadOnly_Snapshot(t *testing.T) {
	b := &fakeBeginner{}
	m := NewTransactionManager(b)

	err := m.DoReadOnly(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, b.tx.committed)
	assert.True(t, b.opts.ReadOnly)
	assert.Equal(t, sql.LevelRepeatableRead, b.opts.Isolation)
}

func TestNoop(t *testing.T) {
	calls := 0
	fn := func(ctx context.Context) error {
		calls++
		assert.False(t, dbmetrics.IsInTransaction(ctx))
		return nil
	}

	require.NoError(t, Noop{}.Do(context.Background(), fn))
	require.NoError(t, Noop{}.DoReadOnly(context.Background(), fn))
	assert.Equal(t, 2, calls)
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	b := &fakeBeginner{}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, b.calls)
}
