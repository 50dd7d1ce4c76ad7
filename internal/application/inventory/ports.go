package inventory

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// StockEventPublisher publica los ajustes de stock confirmados (ej. Kafka).
// Un error de publicación nunca revierte el ajuste: el stock ya quedó confirmado.
type StockEventPublisher interface {
	PublishStockAdjusted(ctx context.Context, adj entity.StockAdjustment) error
}

// StockAdjuster contrato del servicio de stock que consumen los callers (HTTP, CLI).
type StockAdjuster interface {
	AdjustStock(ctx context.Context, productID string, quantityChange int64) error
}

// StockReportGenerator genera la representación PDF del inventario.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, products []*entity.Product) ([]byte, error)
}

type noopPublisher struct{}

func (noopPublisher) PublishStockAdjusted(context.Context, entity.StockAdjustment) error { return nil }
