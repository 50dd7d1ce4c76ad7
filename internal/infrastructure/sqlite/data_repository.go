package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var _ repository.DataRepository = (*DataRepo)(nil)

// DataRepo lecturas de los tableros sobre SQLite.
type DataRepo struct {
	q Querier
}

// NewDataRepository construye el adaptador de consultas.
func NewDataRepository(q Querier) *DataRepo {
	return &DataRepo{q: q}
}

// queryAll ejecuta query y aplica scan a cada fila.
func queryAll[T any](ctx context.Context, q Querier, what, query string, scan func(rowScanner) (*T, error), args ...any) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}

func (r *DataRepo) ListCustomers(ctx context.Context) ([]*entity.Customer, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(branch_id, ''),
		       COALESCE(vip_status, 0), COALESCE(loyalty_points, 0), created_at
		FROM customers ORDER BY id`
	return queryAll(ctx, r.q, "customers", query, func(row rowScanner) (*entity.Customer, error) {
		var c entity.Customer
		var createdAt nullTime
		if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.BranchID, &c.VIPStatus, &c.LoyaltyPoints, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = createdAt.Time
		return &c, nil
	})
}

// ListOrders trae los pedidos y sus líneas en dos consultas.
func (r *DataRepo) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := queryAll(ctx, r.q, "orders",
		`SELECT id, customer_id, COALESCE(branch_id, ''), total_amount, status, order_date FROM orders ORDER BY id`,
		func(row rowScanner) (*entity.Order, error) {
			var o entity.Order
			var orderDate nullTime
			if err := row.Scan(&o.ID, &o.CustomerID, &o.BranchID, &o.TotalAmount, &o.Status, &orderDate); err != nil {
				return nil, err
			}
			o.OrderDate = orderDate.Time
			o.Items = []entity.OrderItem{}
			return &o, nil
		})
	if err != nil {
		return nil, err
	}

	items, err := queryAll(ctx, r.q, "order items",
		`SELECT id, order_id, product_id, quantity, price_at_purchase FROM order_items ORDER BY order_id, id`,
		func(row rowScanner) (*entity.OrderItem, error) {
			var it entity.OrderItem
			if err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase); err != nil {
				return nil, err
			}
			return &it, nil
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
	return queryAll(ctx, r.q, "invoices", query, func(row rowScanner) (*entity.Invoice, error) {
		var inv entity.Invoice
		var dueDate, createdAt nullTime
		if err := row.Scan(&inv.ID, &inv.OrderID, &inv.CustomerID, &inv.BranchID, &inv.Amount, &inv.Status, &dueDate, &createdAt); err != nil {
			return nil, err
		}
		inv.DueDate = dueDate.ptr()
		inv.CreatedAt = createdAt.Time
		return &inv, nil
	})
}

func (r *DataRepo) ListRawMaterials(ctx context.Context) ([]*entity.RawMaterial, error) {
	query := `
		SELECT id, name, type, stock_level, unit, reorder_level, cost_per_unit, COALESCE(supplier, '')
		FROM raw_materials ORDER BY id`
	return queryAll(ctx, r.q, "raw materials", query, func(row rowScanner) (*entity.RawMaterial, error) {
		var m entity.RawMaterial
		if err := row.Scan(&m.ID, &m.Name, &m.Type, &m.StockLevel, &m.Unit, &m.ReorderLevel, &m.CostPerUnit, &m.Supplier); err != nil {
			return nil, err
		}
		return &m, nil
	})
}

func (r *DataRepo) ListStaff(ctx context.Context) ([]*entity.Staff, error) {
	query := `
		SELECT id, name, role, COALESCE(branch_id, ''), COALESCE(contact, ''), status, COALESCE(performance_rating, 0)
		FROM staff ORDER BY id`
	return queryAll(ctx, r.q, "staff", query, func(row rowScanner) (*entity.Staff, error) {
		var s entity.Staff
		if err := row.Scan(&s.ID, &s.Name, &s.Role, &s.BranchID, &s.Contact, &s.Status, &s.PerformanceRating); err != nil {
			return nil, err
		}
		return &s, nil
	})
}

func (r *DataRepo) ListJobCards(ctx context.Context) ([]*entity.JobCard, error) {
	query := `
		SELECT id, order_id, COALESCE(assigned_tailor_id, ''), status, stage, start_date, due_date, COALESCE(notes, '')
		FROM job_cards ORDER BY id`
	return queryAll(ctx, r.q, "job cards", query, func(row rowScanner) (*entity.JobCard, error) {
		var c entity.JobCard
		var start, due nullTime
		if err := row.Scan(&c.ID, &c.OrderID, &c.AssignedTailorID, &c.Status, &c.Stage, &start, &due, &c.Notes); err != nil {
			return nil, err
		}
		c.StartDate = start.ptr()
		c.DueDate = due.ptr()
		return &c, nil
	})
}

func (r *DataRepo) ListExpenses(ctx context.Context) ([]*entity.Expense, error) {
	query := `
		SELECT id, category, amount, date, COALESCE(description, ''), COALESCE(branch_id, ''), COALESCE(gst_input_credit, 0)
		FROM expenses ORDER BY id`
	return queryAll(ctx, r.q, "expenses", query, func(row rowScanner) (*entity.Expense, error) {
		var e entity.Expense
		var date nullTime
		if err := row.Scan(&e.ID, &e.Category, &e.Amount, &date, &e.Description, &e.BranchID, &e.GSTInputCredit); err != nil {
			return nil, err
		}
		e.Date = date.Time
		return &e, nil
	})
}
