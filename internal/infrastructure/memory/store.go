// Package memory implementa los puertos de repositorio en memoria para pruebas y desarrollo
// (DB_DRIVER=memory). UpdateStock conserva la semántica compare-and-swap del motor SQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// Store guarda los productos en un mapa protegido por un RWMutex.
type Store struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	skus     map[string]string // sku -> id
	now      func() time.Time
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		skus:     make(map[string]string),
		now:      time.Now,
	}
}

var (
	_ repository.StockRepository   = (*Store)(nil)
	_ repository.ProductRepository = (*Store)(nil)
)

// FindByID devuelve una copia del producto; (nil, nil) si no existe.
func (s *Store) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// UpdateStock aplica el cambio solo si la versión coincide y el resultado no es negativo.
func (s *Store) UpdateStock(ctx context.Context, id string, delta, expectedVersion int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.Version != expectedVersion || p.StockLevel+delta < 0 {
		return false, nil
	}
	p.StockLevel += delta
	p.Version++
	p.UpdatedAt = s.now().UTC()
	s.products[id] = p
	return true, nil
}

// Create inserta el producto con version 0.
func (s *Store) Create(ctx context.Context, product *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := s.skus[product.SKU]; ok {
		return domain.ErrDuplicate
	}
	p := *product
	p.Version = 0
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	s.products[p.ID] = p
	s.skus[p.SKU] = p.ID
	return nil
}

// ListAll devuelve copias de todos los productos ordenados por id.
func (s *Store) ListAll(ctx context.Context) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
