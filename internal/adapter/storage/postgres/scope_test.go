package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"billing-core/internal/core/domain"
	"billing-core/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinScope_CommitsOnSuccess(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewCurrencyRepo(db)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery("SELECT .+ FROM currencies WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "code"}).AddRow(int64(1), domain.CurrencyUAH))
	mock.ExpectCommit()

	err := db.WithinScope(context.Background(), func(ctx context.Context) error {
		c, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, c)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinScope_RollsBackOnError(t *testing.T) {
	mock, db := newMockDB(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := db.WithinScope(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinScope_NestedReusesTransaction(t *testing.T) {
	mock, db := newMockDB(t)

	// One BeginTx for two nested scopes.
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectCommit()

	var inner bool
	err := db.WithinScope(context.Background(), func(ctx context.Context) error {
		return db.WithinScope(ctx, func(ctx context.Context) error {
			inner = true
			return nil
		})
	})
	require.NoError(t, err)
	assert.True(t, inner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinScope_MapsSerializationFailure(t *testing.T) {
	mock, db := newMockDB(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectRollback()

	pgErr := &pgconn.PgError{Code: serializationFailure}
	err := db.WithinScope(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("update wallet amount: %w", pgErr)
	})
	assert.True(t, apperror.IsKind(err, apperror.KindSerializationConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}
