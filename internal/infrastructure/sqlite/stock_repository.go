package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// Querier abstrae *sql.DB y *sql.Tx para que los repos funcionen dentro o fuera de una transacción.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre SQLite.
type StockRepo struct {
	q   Querier
	now func() time.Time
}

// NewStockRepository construye el adaptador de stock. Pasar db o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q, now: time.Now}
}

const productColumns = `id, sku, name, category, stock_level, price, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	var createdAt, updatedAt nullTime
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.StockLevel, &p.Price, &p.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}

// FindByID obtiene el producto; (nil, nil) si no existe.
func (r *StockRepo) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// UpdateStock compare-and-swap en una sola sentencia: SQLite la aplica de forma atómica y
// ninguna fila cambia si la versión es otra o el stock quedaría negativo.
func (r *StockRepo) UpdateStock(ctx context.Context, id string, delta, expectedVersion int64) (bool, error) {
	query := `
		UPDATE products
		SET stock_level = stock_level + $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4 AND stock_level + $1 >= 0`
	res, err := r.q.ExecContext(ctx, query, delta, timeArg(r.now()), id, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("update stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update stock rows: %w", err)
	}
	return n > 0, nil
}
