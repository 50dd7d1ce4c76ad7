package inventory

import (
	"context"
	"time"
)

// AdjustWithRetry repite el mismo cambio lógico mientras el servicio responda
// ErrConcurrencyConflict, hasta attempts intentos en total. Cualquier otro error se devuelve
// de inmediato. backoff crece de forma lineal entre intentos.
func AdjustWithRetry(ctx context.Context, adjuster StockAdjuster, productID string, quantityChange int64, attempts int, backoff time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = adjuster.AdjustStock(ctx, productID, quantityChange)
		if err == nil || !IsRetryable(err) || i == attempts {
			return err
		}
		if backoff <= 0 {
			continue
		}
		t := time.NewTimer(time.Duration(i) * backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
	return err
}
