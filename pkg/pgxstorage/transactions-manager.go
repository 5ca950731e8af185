package pgxstorage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var errNestedTransaction = errors.New("nested transactions are not supported")

type TransactionsManager struct {
	storage  *DBStorage
	isoLevel pgx.TxIsoLevel
}

func NewTransactionsManager(storage *DBStorage) *TransactionsManager {
	return &TransactionsManager{
		storage:  storage,
		isoLevel: pgx.ReadCommitted,
	}
}

// DoWithTransaction runs f inside a single transaction. Any error returned by
// f, a panic in f, or a failed commit rolls everything back.
func (tm *TransactionsManager) DoWithTransaction(
	ctx context.Context,
	f func(ctx context.Context) error,
) error {
	ctxWithTransaction, tx, err := tm.storage.withTransaction(ctx, tm.isoLevel)
	if err != nil {
		return err
	}
	defer func() {
		if rcv := recover(); rcv != nil {
			_ = tx.Rollback(context.Background())
			panic(rcv)
		}
	}()
	err = f(ctxWithTransaction)
	if err != nil {
		rollbackErr := tx.Rollback(context.Background())
		if rollbackErr != nil {
			return fmt.Errorf("transaction rollback failed: %w, rollback caused by %w", rollbackErr, err)
		}
		return err
	}
	err = tx.Commit(ctx)
	if err != nil {
		rollbackErr := tx.Rollback(context.Background())
		if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			return fmt.Errorf("transaction rollback failed: %w, rollback caused by %w", rollbackErr, err)
		}
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}
