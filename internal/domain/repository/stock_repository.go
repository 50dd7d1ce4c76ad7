package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// StockRepository define el puerto para leer y ajustar el stock de un producto.
// UpdateStock es la única forma de modificar stock_level: una sola sentencia condicional
// (compare-and-swap sobre version) que el motor de base de datos aplica de forma atómica.
type StockRepository interface {
	// FindByID devuelve (nil, nil) si el producto no existe.
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	// UpdateStock aplica stock_level += delta y version += 1 solo si la versión actual es
	// expectedVersion y el resultado no es negativo. Devuelve false si ninguna fila cambió.
	UpdateStock(ctx context.Context, id string, delta, expectedVersion int64) (bool, error)
}
