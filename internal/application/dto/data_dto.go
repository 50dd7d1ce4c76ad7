package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerResponse cliente para GET /api/data/customers.
type CustomerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	BranchID      string    `json:"branchId"`
	VIPStatus     bool      `json:"vipStatus"`
	LoyaltyPoints int64     `json:"loyaltyPoints"`
	JoinDate      time.Time `json:"joinDate"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID          string              `json:"id"`
	CustomerID  string              `json:"customerId"`
	BranchID    string              `json:"branchId"`
	OrderDate   time.Time           `json:"orderDate"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Items       []OrderItemResponse `json:"items"`
}

// TaxBreakdown desglose de impuestos de una factura.
type TaxBreakdown struct {
	GST decimal.Decimal `json:"gst"`
}

// InvoiceResponse factura con cliente y sucursal del pedido.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"orderId"`
	CustomerID    string          `json:"customerId"`
	BranchID      string          `json:"branchId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentStatus string          `json:"paymentStatus"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	TaxBreakdown  TaxBreakdown    `json:"taxBreakdown"`
}

// RawMaterialResponse materia prima.
type RawMaterialResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	StockLevel   decimal.Decimal `json:"stockLevel"`
	Unit         string          `json:"unit"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	CostPerUnit  decimal.Decimal `json:"costPerUnit"`
	Supplier     string          `json:"supplier"`
	NeedsReorder bool            `json:"needsReorder"`
}

// StaffResponse empleado.
type StaffResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Role              string          `json:"role"`
	BranchID          string          `json:"branchId"`
	Contact           string          `json:"contact"`
	Status            string          `json:"status"`
	PerformanceRating decimal.Decimal `json:"performanceRating"`
}

// JobCardResponse orden de producción.
type JobCardResponse struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"orderId"`
	AssignedTailorID string     `json:"assignedTailorId"`
	Status           string     `json:"status"`
	Stage            string     `json:"stage"`
	StartDate        *time.Time `json:"startDate"`
	DueDate          *time.Time `json:"dueDate"`
	Notes            string     `json:"notes"`
}

// ExpenseResponse gasto.
type ExpenseResponse struct {
	ID             string          `json:"id"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	BranchID       string          `json:"branchId"`
	GSTInputCredit decimal.Decimal `json:"gstInputCredit"`
}
