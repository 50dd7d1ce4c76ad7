package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const schemaVersion = 1

// Migrate aplica las migraciones embebidas usando una conexión database/sql sobre el pool.
// Con seed=false se detiene en el esquema.
func Migrate(pool *pgxpool.Pool, seed bool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("leer migraciones: %w", err)
	}
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("driver de migración: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("instancia de migración: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := upTo(m, seed); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ejecutar migraciones: %w", err)
	}
	return nil
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
