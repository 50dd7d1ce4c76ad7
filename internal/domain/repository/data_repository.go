package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// DataRepository lecturas de solo consulta para los tableros del panel (clientes, pedidos,
// facturación, producción y gastos).
type DataRepository interface {
	ListCustomers(ctx context.Context) ([]*entity.Customer, error)
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	ListInvoices(ctx context.Context) ([]*entity.Invoice, error)
	ListRawMaterials(ctx context.Context) ([]*entity.RawMaterial, error)
	ListStaff(ctx context.Context) ([]*entity.Staff, error)
	ListJobCards(ctx context.Context) ([]*entity.JobCard, error)
	ListExpenses(ctx context.Context) ([]*entity.Expense, error)
}
