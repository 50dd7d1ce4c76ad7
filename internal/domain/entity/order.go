package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusReturned   = "Returned"
)

// Order representa un pedido de cliente con sus líneas.
type Order struct {
	ID          string
	CustomerID  string
	BranchID    string
	TotalAmount decimal.Decimal
	Status      string
	OrderDate   time.Time
	Items       []OrderItem
}

// OrderItem línea de un pedido.
type OrderItem struct {
	ID              string
	OrderID         string
	ProductID       string
	Quantity        int64
	PriceAtPurchase decimal.Decimal
}
