// Package storetest opens migrated in-memory sqlite stores for tests.
package storetest

import (
	"context"
	"regexp"
	"testing"

	"petadoption/internal/store"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// New returns a store backed by a private in-memory database with all
// migrations applied. The database is dropped when the test ends.
// Callers must not run in parallel with other migrating tests.
func New(t testing.TB) *store.Store {
	t.Helper()

	dsn := "file:" + unsafeName.ReplaceAllString(t.Name(), "_") +
		"?mode=memory&cache=shared&_foreign_keys=on"

	db, err := store.Open(store.Config{Driver: store.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := store.Migrate(context.Background(), db, store.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}
