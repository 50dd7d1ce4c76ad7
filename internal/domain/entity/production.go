package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterial materia prima del taller (telas, hilos, adornos).
type RawMaterial struct {
	ID           string
	Name         string
	Type         string // Fabric, Thread, Trim, Embellishment
	StockLevel   decimal.Decimal
	Unit         string
	ReorderLevel decimal.Decimal
	CostPerUnit  decimal.Decimal
	Supplier     string
}

// BelowReorderLevel indica si la materia prima debe reponerse.
func (m *RawMaterial) BelowReorderLevel() bool {
	return m.StockLevel.LessThanOrEqual(m.ReorderLevel)
}

// Staff empleado de una sucursal (sastres, ventas).
type Staff struct {
	ID                string
	Name              string
	Role              string
	BranchID          string
	Contact           string
	Status            string
	PerformanceRating decimal.Decimal
}

// JobCard orden de producción asignada a un sastre.
type JobCard struct {
	ID               string
	OrderID          string
	AssignedTailorID string
	Status           string
	Stage            string
	StartDate        *time.Time
	DueDate          *time.Time
	Notes            string
}

// Expense gasto operativo de una sucursal.
type Expense struct {
	ID             string
	Category       string
	Amount         decimal.Decimal
	Date           time.Time
	Description    string
	BranchID       string
	GSTInputCredit decimal.Decimal
}
