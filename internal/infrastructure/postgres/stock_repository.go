package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const productColumns = `id, sku, name, category, stock_level, price, version, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.StockLevel, &p.Price, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID obtiene el producto; (nil, nil) si no existe. No bloquea la fila.
func (r *StockRepo) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// UpdateStock compare-and-swap en una sola sentencia condicional sobre version.
func (r *StockRepo) UpdateStock(ctx context.Context, id string, delta, expectedVersion int64) (bool, error) {
	query := `
		UPDATE products
		SET stock_level = stock_level + $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3 AND stock_level + $1 >= 0`
	tag, err := r.q.Exec(ctx, query, delta, id, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("update stock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
