package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/infrastructure/storage"
	"github.com/jhoicas/boutique-api/pkg/config"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	b, err := storage.Open(ctx, config.DBConfig{Driver: config.DriverMemory}, true)
	require.NoError(t, err)
	defer b.Close()

	list, err := b.Products.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
	assert.NoError(t, b.Ping(ctx))

	empty, err := storage.Open(ctx, config.DBConfig{Driver: config.DriverMemory}, false)
	require.NoError(t, err)
	customers, err := empty.Data.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "boutique.db"),
		SQLiteBusy: time.Second,
	}
	b, err := storage.Open(ctx, cfg, true)
	require.NoError(t, err)

	ok, err := b.Stock.UpdateStock(ctx, "P001", -1, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, b.Ping(ctx))
	b.Close()

	// Reabrir no vuelve a sembrar ni pisa el stock.
	b, err = storage.Open(ctx, cfg, true)
	require.NoError(t, err)
	defer b.Close()
	p, err := b.Stock.FindByID(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.StockLevel)
	assert.Equal(t, int64(1), p.Version)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := storage.Open(context.Background(), config.DBConfig{Driver: "mongo"}, false)
	assert.Error(t, err)
}
