// Package sqlite implementa los puertos de repositorio sobre SQLite (modernc.org/sqlite, sin cgo).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaVersion última migración de esquema; las posteriores son datos de demostración.
const schemaVersion = 1

// Open abre la base SQLite en path con WAL, foreign keys y busy_timeout.
// busy_timeout hace que un escritor espere el lock de archivo en vez de fallar con SQLITE_BUSY.
func Open(ctx context.Context, path string, busyTimeout time.Duration) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate aplica las migraciones embebidas. Con seed=false se detiene en el esquema.
func Migrate(db *sql.DB, seed bool) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("leer migraciones: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("driver de migración: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("instancia de migración: %w", err)
	}

	if err := upTo(m, seed); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ejecutar migraciones: %w", err)
	}
	return nil
}

// isUniqueViolation verifica si un error es una violación de UNIQUE o PRIMARY KEY.
func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(se.Error(), "UNIQUE")
		}
	}
	return false
}

// upTo aplica todo con seed; sin seed solo sube hasta el esquema y nunca baja una base
// que ya tenga los datos de demostración.
func upTo(m *migrate.Migrate, seed bool) error {
	if seed {
		return m.Up()
	}
	v, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	if err == nil && v >= schemaVersion {
		return migrate.ErrNoChange
	}
	return m.Migrate(schemaVersion)
}
