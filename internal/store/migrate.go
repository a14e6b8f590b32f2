package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrationsFS embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...)) }
func (gooseLogger) Fatalf(format string, v ...any) { slog.Error(fmt.Sprintf(format, v...)) }

// Migrate applies the embedded migrations for driver (postgres or sqlite).
// goose keeps global state, so concurrent calls are not supported.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	dialect, dir, err := migrationDialect(driver)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := gooseUpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func migrationDialect(driver string) (dialect, dir string, err error) {
	switch driver {
	case DriverPostgres, "":
		return "pgx", "migrations/postgres", nil
	case DriverSQLite:
		return "sqlite3", "migrations/sqlite3", nil
	default:
		return "", "", fmt.Errorf("migrate: unsupported driver %q", driver)
	}
}
