package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// ProductRepository define el puerto de catálogo (alta y listado) para Product.
// No modifica stock_level de productos existentes.
type ProductRepository interface {
	// Create inserta el producto con version 0. Devuelve domain.ErrDuplicate si el id o el SKU ya existen.
	Create(ctx context.Context, product *entity.Product) error
	ListAll(ctx context.Context) ([]*entity.Product, error)
}
