// Package store persists deck sessions, profile cookies and visit history
// in a sqlite database under the user data dir.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
)

// MigrationAction is the type of migration to perform.
type MigrationAction int

const (
	// MigrateUp Fully upgrades the schema.
	MigrateUp MigrationAction = iota
	// MigrateDn Fully downgrades the schema.
	MigrateDn
	// MigrateUpOne Upgrade the schema by one revision.
	MigrateUpOne
	// MigrateDownOne Downgrade the schema by one revision.
	MigrateDownOne
)

var (
	//go:embed migrations
	migrations embed.FS

	ErrDBConnect = errors.New("db connect error")
	ErrMigrate   = errors.New("failed to migrate db schema")
	ErrNotFound  = errors.New("not found")
	ErrQuery     = errors.New("query error")
)

// Open opens, configures and optionally migrates the database. An empty path
// opens an in-memory database, used by tests.
func Open(ctx context.Context, path string, autoMigrate bool) (*sql.DB, error) {
	inMemory := path == ""
	if inMemory {
		path = ":memory:"
	}

	database, errOpen := sql.Open("sqlite", path+"?cache=private")
	if errOpen != nil {
		return nil, errors.Join(errOpen, ErrDBConnect)
	}

	parallelism := min(8, max(2, runtime.GOMAXPROCS(0)))
	if inMemory {
		// Every new connection to :memory: opens a distinct empty database.
		parallelism = 1
	}
	database.SetMaxOpenConns(parallelism)
	database.SetMaxIdleConns(parallelism)
	database.SetConnMaxLifetime(0)
	database.SetConnMaxIdleTime(0)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA main.synchronous = NORMAL",
		"PRAGMA main.cache_size = -32768",
	} {
		if _, errPragma := database.ExecContext(ctx, pragma); errPragma != nil {
			return nil, errors.Join(errPragma, ErrDBConnect)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if errPing := database.PingContext(pingCtx); errPing != nil {
		database.Close()

		return nil, errors.Join(errPing, ErrDBConnect)
	}

	if autoMigrate {
		if errMigrate := Migrate(database, MigrateUp); errMigrate != nil {
			return nil, errors.Join(errMigrate, ErrDBConnect)
		}
	}

	return database, nil
}

// Migrate applies the embedded schema migrations to the open database.
func Migrate(conn *sql.DB, action MigrationAction) error {
	driver, errDriver := sqlite.WithInstance(conn, &sqlite.Config{})
	if errDriver != nil {
		return errors.Join(errDriver, ErrMigrate)
	}

	source, errHTTPFS := httpfs.New(http.FS(migrations), "migrations")
	if errHTTPFS != nil {
		return errors.Join(errHTTPFS, ErrMigrate)
	}

	migrator, errInstance := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if errInstance != nil {
		return errors.Join(errInstance, ErrMigrate)
	}

	var errMigration error

	switch action {
	case MigrateUpOne:
		errMigration = migrator.Steps(1)
	case MigrateDn:
		errMigration = migrator.Down()
	case MigrateDownOne:
		errMigration = migrator.Steps(-1)
	case MigrateUp:
		fallthrough
	default:
		errMigration = migrator.Up()
	}

	if errMigration != nil && !errors.Is(errMigration, migrate.ErrNoChange) {
		return errors.Join(errMigration, ErrMigrate)
	}

	return nil
}
