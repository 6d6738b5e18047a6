// Package test provides fixtures shared by package tests.
package test

import (
	"context"
	"net"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/migrate"
	"github.com/charmbracelet/soft-board/pkg/store"
	"github.com/charmbracelet/soft-board/pkg/store/database"
)

var (
	used = map[int]struct{}{}
	lock sync.Mutex
)

// RandomPort returns a random port number.
// This is mainly used for testing.
func RandomPort() int {
	addr, _ := net.Listen("tcp", ":0") //nolint:gosec
	_ = addr.Close()
	port := addr.Addr().(*net.TCPAddr).Port
	lock.Lock()

	if _, ok := used[port]; ok {
		lock.Unlock()
		return RandomPort()
	}

	used[port] = struct{}{}
	lock.Unlock()
	return port
}

// OpenDB opens a migrated temp SQLite database and its store. The database
// is closed when the test is done.
func OpenDB(ctx context.Context, tb testing.TB) (*db.DB, store.Store) {
	tb.Helper()
	dsn := filepath.Join(tb.TempDir(), "board.db") + "?" + db.SqlitePragmas
	dbx, err := db.Open(ctx, "sqlite", dsn)
	if err != nil {
		tb.Fatalf("open database: %v", err)
	}
	tb.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			tb.Error(err)
		}
	})

	if err := migrate.Migrate(ctx, dbx); err != nil {
		tb.Fatalf("migrate database: %v", err)
	}

	return dbx, database.New(ctx, dbx)
}
