package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GSTRate tasa de GST aplicada al desglose de impuestos de las facturas.
var GSTRate = decimal.NewFromFloat(0.18)

// Invoice representa una factura emitida sobre un pedido.
// CustomerID y BranchID provienen del pedido asociado.
type Invoice struct {
	ID         string
	OrderID    string
	CustomerID string
	BranchID   string
	Amount     decimal.Decimal
	Status     string // Paid, Pending, Overdue
	DueDate    *time.Time
	CreatedAt  time.Time
}

// GST devuelve el impuesto estimado sobre el monto de la factura.
func (i *Invoice) GST() decimal.Decimal {
	return i.Amount.Mul(GSTRate).Round(2)
}
