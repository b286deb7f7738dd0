package repository

import (
    "context"
    "database/sql"
    "fmt"
)

type txKey struct{}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction stored in ctx by TxManager, or db when
// the call is not part of a transaction.
func conn(ctx context.Context, db *sql.DB) dbtx {
    if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
        return tx
    }
    return db
}

// TxManager runs a function inside a single database transaction.
// Repositories called with the context passed to fn share the
// transaction transparently.
type TxManager struct {
    db *sql.DB
}

// NewTxManager returns a TxManager bound to db.
func NewTxManager(db *sql.DB) *TxManager { return &TxManager{db: db} }

// WithinTransaction begins a transaction, calls fn and commits when fn
// returns nil.  Any error from fn, or a panic, rolls the transaction
// back.  A failed commit is returned to the caller.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
    tx, err := m.db.BeginTx(ctx, nil)
    if err != nil {
        return fmt.Errorf("begin tx: %w", err)
    }
    defer func() {
        if p := recover(); p != nil {
            _ = tx.Rollback()
            panic(p)
        }
        if err != nil {
            _ = tx.Rollback()
            return
        }
        if cerr := tx.Commit(); cerr != nil {
            err = fmt.Errorf("commit tx: %w", cerr)
        }
    }()
    err = fn(context.WithValue(ctx, txKey{}, tx))
    return err
}
