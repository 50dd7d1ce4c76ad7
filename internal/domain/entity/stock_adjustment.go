package entity

import "time"

// Tipos de ajuste de stock según el signo del cambio.
const (
	AdjustmentTypeRestock = "RESTOCK" // cambio positivo
	AdjustmentTypeSale    = "SALE"    // cambio negativo
	AdjustmentTypeRecount = "RECOUNT" // cambio cero, solo sube la versión
)

// StockAdjustment describe un ajuste de stock ya confirmado en la base de datos.
// Se publica como evento después de liberar la sección crítica.
type StockAdjustment struct {
	ID             string
	ProductID      string
	Type           string
	QuantityChange int64
	StockLevel     int64 // stock resultante
	Version        int64 // versión resultante
	OccurredAt     time.Time
}

// AdjustmentTypeFor clasifica un cambio de cantidad.
func AdjustmentTypeFor(quantityChange int64) string {
	switch {
	case quantityChange > 0:
		return AdjustmentTypeRestock
	case quantityChange < 0:
		return AdjustmentTypeSale
	default:
		return AdjustmentTypeRecount
	}
}
