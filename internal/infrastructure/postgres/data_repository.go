package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var _ repository.DataRepository = (*DataRepo)(nil)

// DataRepo lecturas de los tableros sobre PostgreSQL.
type DataRepo struct {
	q Querier
}

// NewDataRepository construye el adaptador de consultas.
func NewDataRepository(q Querier) *DataRepo {
	return &DataRepo{q: q}
}

func collect[T any](ctx context.Context, q Querier, what, query string, scan func(pgx.CollectableRow) (*T, error)) ([]*T, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	list, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", what, err)
	}
	return list, nil
}

func (r *DataRepo) ListCustomers(ctx context.Context) ([]*entity.Customer, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(branch_id, ''),
		       vip_status, loyalty_points, created_at
		FROM customers ORDER BY id`
	return collect(ctx, r.q, "customers", query, func(row pgx.CollectableRow) (*entity.Customer, error) {
		var c entity.Customer
		err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.BranchID, &c.VIPStatus, &c.LoyaltyPoints, &c.CreatedAt)
		return &c, err
	})
}

// ListOrders trae los pedidos y sus líneas en dos consultas.
func (r *DataRepo) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := collect(ctx, r.q, "orders",
		`SELECT id, customer_id, COALESCE(branch_id, ''), total_amount, status, order_date FROM orders ORDER BY id`,
		func(row pgx.CollectableRow) (*entity.Order, error) {
			var o entity.Order
			err := row.Scan(&o.ID, &o.CustomerID, &o.BranchID, &o.TotalAmount, &o.Status, &o.OrderDate)
			o.Items = []entity.OrderItem{}
			return &o, err
		})
	if err != nil {
		return nil, err
	}

	items, err := collect(ctx, r.q, "order items",
		`SELECT id, order_id, product_id, quantity, price_at_purchase FROM order_items ORDER BY order_id, id`,
		func(row pgx.CollectableRow) (*entity.OrderItem, error) {
			var it entity.OrderItem
			err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase)
			return &it, err
		})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	for _, it := range items {
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, *it)
		}
	}
	return orders, nil
}

func (r *DataRepo) ListInvoices(ctx context.Context) ([]*entity.Invoice, error) {
	query := `
		SELECT i.id, i.order_id, o.customer_id, COALESCE(o.branch_id, ''), i.amount, i.status, i.due_date, i.created_at
		FROM invoices i
		JOIN orders o ON i.order_id = o.id
		ORDER BY i.id`
	return collect(ctx, r.q, "invoices", query, func(row pgx.CollectableRow) (*entity.Invoice, error) {
		var inv entity.Invoice
		err := row.Scan(&inv.ID, &inv.OrderID, &inv.CustomerID, &inv.BranchID, &inv.Amount, &inv.Status, &inv.DueDate, &inv.CreatedAt)
		return &inv, err
	})
}

func (r *DataRepo) ListRawMaterials(ctx context.Context) ([]*entity.RawMaterial, error) {
	query := `
		SELECT id, name, type, stock_level, unit, reorder_level, cost_per_unit, COALESCE(supplier, '')
		FROM raw_materials ORDER BY id`
	return collect(ctx, r.q, "raw materials", query, func(row pgx.CollectableRow) (*entity.RawMaterial, error) {
		var m entity.RawMaterial
		err := row.Scan(&m.ID, &m.Name, &m.Type, &m.StockLevel, &m.Unit, &m.ReorderLevel, &m.CostPerUnit, &m.Supplier)
		return &m, err
	})
}

func (r *DataRepo) ListStaff(ctx context.Context) ([]*entity.Staff, error) {
	query := `
		SELECT id, name, role, COALESCE(branch_id, ''), COALESCE(contact, ''), status, performance_rating
		FROM staff ORDER BY id`
	return collect(ctx, r.q, "staff", query, func(row pgx.CollectableRow) (*entity.Staff, error) {
		var s entity.Staff
		err := row.Scan(&s.ID, &s.Name, &s.Role, &s.BranchID, &s.Contact, &s.Status, &s.PerformanceRating)
		return &s, err
	})
}

func (r *DataRepo) ListJobCards(ctx context.Context) ([]*entity.JobCard, error) {
	query := `
		SELECT id, order_id, COALESCE(assigned_tailor_id, ''), status, stage, start_date, due_date, COALESCE(notes, '')
		FROM job_cards ORDER BY id`
	return collect(ctx, r.q, "job cards", query, func(row pgx.CollectableRow) (*entity.JobCard, error) {
		var c entity.JobCard
		err := row.Scan(&c.ID, &c.OrderID, &c.AssignedTailorID, &c.Status, &c.Stage, &c.StartDate, &c.DueDate, &c.Notes)
		return &c, err
	})
}

func (r *DataRepo) ListExpenses(ctx context.Context) ([]*entity.Expense, error) {
	query := `
		SELECT id, category, amount, date, COALESCE(description, ''), COALESCE(branch_id, ''), gst_input_credit
		FROM expenses ORDER BY id`
	return collect(ctx, r.q, "expenses", query, func(row pgx.CollectableRow) (*entity.Expense, error) {
		var e entity.Expense
		err := row.Scan(&e.ID, &e.Category, &e.Amount, &e.Date, &e.Description, &e.BranchID, &e.GSTInputCredit)
		return &e, err
	})
}
