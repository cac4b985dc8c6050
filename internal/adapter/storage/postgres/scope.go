package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// serializationFailure is the SQLSTATE PostgreSQL raises when a serializable
// transaction aborts; deadlockDetected gets the same treatment because the
// caller's remedy is identical.
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// WithinScope implements ports.Store. The outermost call opens a SERIALIZABLE
// transaction and stashes it in the context; nested calls detect the ambient
// transaction and run fn directly. The transaction commits only when fn
// returns nil.
func (d *DB) WithinScope(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin scope: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			d.log.Error().Err(rbErr).Msg("scope rollback failed")
		}
		return mapScopeError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapScopeError(fmt.Errorf("commit scope: %w", err))
	}
	return nil
}

func mapScopeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected {
			return apperror.SerializationConflict(err)
		}
	}
	return err
}
