// Package storage opens the SQL database behind the catalog and order
// repositories and applies the embedded schema migrations.
package storage

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:golint
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations
var migrations embed.FS

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to the database and checks the connection.
func Open(driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if driver == DriverSQLite {
		// a single connection keeps :memory: databases alive and serialises writers
		maxOpenConns = 1
		db.SetConnMaxLifetime(0)
	}
	db.SetMaxOpenConns(maxOpenConns)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "ping %s", driver)
	}

	return db, nil
}

// Migrate applies every pending up migration for the connection's driver.
func Migrate(db *sqlx.DB) error {
	driver := db.DriverName()

	source, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return errors.Wrap(err, "open migrations")
	}

	var target database.Driver
	switch driver {
	case DriverPostgres:
		target, err = migratepg.WithInstance(db.DB, &migratepg.Config{})
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unsupported storage driver %q", driver)
	}
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}

	// m.Close is not called: it would close db, which the caller owns.
	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}

	return nil
}
