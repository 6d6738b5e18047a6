// Package test provides testing utilities for database operations.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/soft-board/pkg/db"
)

// OpenSqlite opens a new, unmigrated temp SQLite database with the same
// pragmas the server uses. It closes the database when the test is done
// using tb.Cleanup. If ctx is nil, context.TODO() is used.
func OpenSqlite(ctx context.Context, tb testing.TB) (*db.DB, error) {
	if ctx == nil {
		ctx = context.TODO()
	}
	dsn := filepath.Join(tb.TempDir(), "board.db") + "?" + db.SqlitePragmas
	dbx, err := db.Open(ctx, "sqlite", dsn)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	tb.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			tb.Error(err)
		}
	})
	return dbx, nil
}

// MustExec runs each statement in order and fails the test on the first
// error.
func MustExec(ctx context.Context, tb testing.TB, h db.Handler, stmts ...string) {
	tb.Helper()
	for _, stmt := range stmts {
		if _, err := h.ExecContext(ctx, stmt); err != nil {
			tb.Fatalf("exec %q: %v", stmt, err)
		}
	}
}
