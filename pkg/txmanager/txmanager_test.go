package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ev4kov/SBP-BookingEngine/pkg/dbmetrics"
)

// stubTx транзакция с программируемым результатом коммита
type stubTx struct {
	commitErr error
	committed bool
	rolledBck bool
}

func (t *stubTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *stubTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *stubTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *stubTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *stubTx) Rollback() error {
	t.rolledBck = true
	return nil
}

// stubBeginner выдаёт по транзакции на каждый attempt
type stubBeginner struct {
	begins    int
	commitErr func(attempt int) error
	last      *stubTx
}

func (b *stubBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	b.last = &stubTx{commitErr: b.commitErr(b.begins)}
	return b.last, nil
}

func serializationFailure() error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializableRetriesCommitSerializationFailure(t *testing.T) {
	// SSI: проигравшая транзакция узнаёт о конфликте ровно на COMMIT
	db := &stubBeginner{commitErr: func(int) error { return serializationFailure() }}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, db.begins, "каждый serialization failure должен повторяться")
	assert.ErrorIs(t, err, ErrCommitTx)

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr), "исходная ошибка pq должна сохраняться в цепочке")
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestDoSerializableSucceedsAfterRetry(t *testing.T) {
	db := &stubBeginner{commitErr: func(attempt int) error {
		if attempt == 1 {
			return serializationFailure()
		}
		return nil
	}}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, db.begins)
	assert.Equal(t, 2, calls, "fn выполняется заново в каждой попытке")
}

func TestDoSerializableRetriesDeadlockInsideFn(t *testing.T) {
	// Дедлок может всплыть и до коммита, из запроса внутри fn.
	// Репозитории оборачивают причину через %w, цепочка должна сохраниться.
	db := &stubBeginner{commitErr: func(int) error { return nil }}
	m := NewTransactionManager(db)

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("%w: Upsert - execute insert: %w",
				errors.New("hold.repository: failed to execute query"),
				&pq.Error{Code: "40P01"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDoSerializableDoesNotRetryBusinessErrors(t *testing.T) {
	db := &stubBeginner{commitErr: func(int) error { return nil }}
	m := NewTransactionManager(db)

	businessErr := errors.New("slot is held by another session")
	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return businessErr
	})

	require.ErrorIs(t, err, businessErr)
	assert.Equal(t, 1, attempts, "бизнес-ошибки не повторяются")
	assert.True(t, db.last.rolledBck)
	assert.False(t, db.last.committed)
}

func TestDoCommitsOnSuccess(t *testing.T) {
	db := &stubBeginner{commitErr: func(int) error { return nil }}
	m := NewTransactionManager(db)

	require.NoError(t, m.Do(context.Background(), func(ctx context.Context) error { return nil }))
	assert.True(t, db.last.committed)
	assert.Equal(t, 1, db.begins)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, isRetryable(&pq.Error{Code: "40P01"}))
	assert.True(t, isRetryable(fmt.Errorf("%w: %w", ErrCommitTx, &pq.Error{Code: "40001"})),
		"обёртка коммита не должна прятать код ошибки")
	assert.False(t, isRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("plain error")))
}
