package repository

import (
    "context"
    "database/sql"
)

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx used by repositories.
// Methods resolve against the transaction stored in the context when
// one is present, so multi-repository work shares a single transaction.
type querier interface {
    ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxRunner begins database transactions and propagates them through
// the context so repository methods called inside fn participate in
// the same transaction.  Nested WithTx calls reuse the outer
// transaction instead of opening a second one.
type TxRunner struct {
    db *sql.DB
}

// NewTxRunner returns a TxRunner bound to the given database.
func NewTxRunner(db *sql.DB) *TxRunner { return &TxRunner{db: db} }

// WithTx runs fn inside a transaction.  The transaction is rolled
// back when fn returns an error and committed otherwise.
func (r *TxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
    if txFromContext(ctx) != nil {
        return fn(ctx)
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    txCtx := context.WithValue(ctx, txKey{}, tx)
    if err := fn(txCtx); err != nil {
        _ = tx.Rollback()
        return err
    }
    return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
    tx, _ := ctx.Value(txKey{}).(*sql.Tx)
    return tx
}

// q returns the active transaction when the context carries one, and
// the plain database handle otherwise.
func q(ctx context.Context, db *sql.DB) querier {
    if tx := txFromContext(ctx); tx != nil {
        return tx
    }
    return db
}
