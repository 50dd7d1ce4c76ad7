// Package storage abre el backend configurado en DB_DRIVER y expone sus repositorios
// detrás de los puertos de dominio. Lo comparten cmd/api y cmd/boutiquectl.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/infrastructure/memory"
	"github.com/jhoicas/boutique-api/internal/infrastructure/postgres"
	"github.com/jhoicas/boutique-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/boutique-api/pkg/config"
)

// Backend repositorios de un mismo almacenamiento.
type Backend struct {
	Driver   string
	Stock    repository.StockRepository
	Products repository.ProductRepository
	Users    repository.UserRepository
	Data     repository.DataRepository
	// Ping verifica la conexión (health check).
	Ping  func(ctx context.Context) error
	close func()
}

// Close libera la conexión del backend.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open conecta con el backend y aplica las migraciones. seed=false aplica solo el esquema.
func Open(ctx context.Context, cfg config.DBConfig, seed bool) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return openSQLite(ctx, cfg, seed)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, seed)
	case config.DriverMemory:
		return openMemory(ctx, seed)
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}

func openSQLite(ctx context.Context, cfg config.DBConfig, seed bool) (*Backend, error) {
	db, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.SQLiteBusy)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(db, seed); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Backend{
		Driver:   config.DriverSQLite,
		Stock:    sqlite.NewStockRepository(db),
		Products: sqlite.NewProductRepository(db),
		Users:    sqlite.NewUserRepository(db),
		Data:     sqlite.NewDataRepository(db),
		Ping:     db.PingContext,
		close:    func() { _ = db.Close() },
	}, nil
}

func openPostgres(ctx context.Context, cfg config.DBConfig, seed bool) (*Backend, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(pool, seed); err != nil {
		pool.Close()
		return nil, err
	}
	return &Backend{
		Driver:   config.DriverPostgres,
		Stock:    postgres.NewStockRepository(pool),
		Products: postgres.NewProductRepository(pool),
		Users:    postgres.NewUserRepository(pool),
		Data:     postgres.NewDataRepository(pool),
		Ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

// openMemory no persiste nada; con seed carga los datos de demostración.
func openMemory(ctx context.Context, seed bool) (*Backend, error) {
	products := memory.NewStore()
	var data repository.DataRepository = &memory.DataStore{}
	if seed {
		ds, err := memory.SeedDemo(ctx, products)
		if err != nil {
			return nil, err
		}
		data = ds
	}
	return &Backend{
		Driver:   config.DriverMemory,
		Stock:    products,
		Products: products,
		Users:    memory.NewUserStore(),
		Data:     data,
		Ping:     func(context.Context) error { return nil },
	}, nil
}
