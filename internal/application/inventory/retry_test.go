package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/boutique-api/internal/application/inventory"
	"github.com/jhoicas/boutique-api/internal/domain"
)

type scriptedAdjuster struct {
	results []error
	calls   int
}

func (s *scriptedAdjuster) AdjustStock(context.Context, string, int64) error {
	i := s.calls
	s.calls++
	if i < len(s.results) {
		return s.results[i]
	}
	return nil
}

func TestAdjustWithRetry_ReintentaSoloConflictos(t *testing.T) {
	adj := &scriptedAdjuster{results: []error{domain.ErrConcurrencyConflict, domain.ErrConcurrencyConflict, nil}}
	err := inventory.AdjustWithRetry(context.Background(), adj, "P1", -1, 5, time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 3, adj.calls)
}

func TestAdjustWithRetry_NoReintentaStockInsuficiente(t *testing.T) {
	adj := &scriptedAdjuster{results: []error{&domain.InsufficientStockError{ProductID: "P1"}}}
	err := inventory.AdjustWithRetry(context.Background(), adj, "P1", -1, 5, 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, adj.calls)
}

func TestAdjustWithRetry_AgotaIntentos(t *testing.T) {
	adj := &scriptedAdjuster{results: []error{
		domain.ErrConcurrencyConflict, domain.ErrConcurrencyConflict, domain.ErrConcurrencyConflict,
	}}
	err := inventory.AdjustWithRetry(context.Background(), adj, "P1", -1, 3, 0)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 3, adj.calls)
}

func TestAdjustWithRetry_ContextoCanceladoCorta(t *testing.T) {
	adj := &scriptedAdjuster{results: []error{domain.ErrConcurrencyConflict, domain.ErrConcurrencyConflict}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := inventory.AdjustWithRetry(ctx, adj, "P1", -1, 5, time.Second)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 1, adj.calls)
}
