package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/al211185/edumobile/internal/db"
)

// NewTestDB returns a migrated in-memory store closed at test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestRunner(database *sql.DB) *db.TxRunner {
	return db.NewTxRunner(database)
}

// FailingTx runs fn in a real transaction but makes the FailAt-th write
// (counting from 1) return Err. Reads are not counted.
type FailingTx struct {
	Runner *db.TxRunner
	FailAt int
	Err    error
}

func (f *FailingTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return f.Runner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &writeCounter{DBTX: tx, failAt: f.FailAt, err: f.Err})
	})
}

type writeCounter struct {
	db.DBTX
	writes int
	failAt int
	err    error
}

func (w *writeCounter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	w.writes++
	if w.writes == w.failAt {
		return nil, w.err
	}
	return w.DBTX.ExecContext(ctx, query, args...)
}
