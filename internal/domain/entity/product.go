package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de la boutique.
// StockLevel nunca es negativo; Version es el token de concurrencia optimista
// y sube exactamente en 1 por cada ajuste de stock confirmado.
type Product struct {
	ID         string
	SKU        string // único
	Name       string
	Category   string // Saree, Kurti, Lehenga, Accessories...
	StockLevel int64
	Price      decimal.Decimal
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProjectedStock devuelve el stock que resultaría de aplicar delta.
// ok es false si la suma desborda int64.
func (p *Product) ProjectedStock(delta int64) (projected int64, ok bool) {
	if delta > 0 && p.StockLevel > math.MaxInt64-delta {
		return 0, false
	}
	if delta < 0 && p.StockLevel < math.MinInt64-delta {
		return 0, false
	}
	return p.StockLevel + delta, true
}

// StockValue valor del stock a precio de venta.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.StockLevel))
}
