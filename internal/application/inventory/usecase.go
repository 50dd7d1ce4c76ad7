package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/pkg/keylock"
)

// StockService es el único punto de entrada para modificar stock.
//
// Cada ajuste corre dentro de una sección crítica por producto (lectura, validación y
// compare-and-swap como una unidad). El UPDATE condicional sobre version protege además
// contra escritores de otros procesos: una carrera entre procesos termina en
// ErrConcurrencyConflict, nunca en una actualización perdida o en stock negativo.
type StockService struct {
	repo      repository.StockRepository
	locks     *keylock.KeyLock
	publisher StockEventPublisher
	log       zerolog.Logger
	now       func() time.Time
	// lockTimeout acota solo la espera por la sección crítica; 0 = hasta que ctx termine.
	lockTimeout time.Duration
}

// Option configura un StockService.
type Option func(*StockService)

// WithPublisher publica un StockAdjustment tras cada ajuste confirmado.
func WithPublisher(p StockEventPublisher) Option {
	return func(s *StockService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger registra los fallos de publicación.
func WithLogger(l zerolog.Logger) Option {
	return func(s *StockService) { s.log = l }
}

// WithLocks comparte el KeyLock entre varios servicios del mismo proceso.
func WithLocks(l *keylock.KeyLock) Option {
	return func(s *StockService) {
		if l != nil {
			s.locks = l
		}
	}
}

// WithLockTimeout limita cuánto espera un ajuste por el lock de su producto.
func WithLockTimeout(d time.Duration) Option {
	return func(s *StockService) { s.lockTimeout = d }
}

// NewStockService construye el servicio de stock.
func NewStockService(repo repository.StockRepository, opts ...Option) *StockService {
	s := &StockService{
		repo:      repo,
		locks:     keylock.New(),
		publisher: noopPublisher{},
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ StockAdjuster = (*StockService)(nil)

// AdjustStock suma quantityChange (negativo = venta, positivo = reposición, cero = solo sube
// la versión) al stock del producto.
//
// Errores: domain.ErrInvalidInput, domain.ErrProductNotFound, *domain.InsufficientStockError
// (errors.Is con domain.ErrInsufficientStock), domain.ErrConcurrencyConflict y
// domain.ErrLockTimeout si vence el plazo antes de entrar a la sección crítica. Si ctx se
// cancela mientras espera el lock se devuelve context.Canceled sin envolver.
// No reintenta; ver AdjustWithRetry.
func (s *StockService) AdjustStock(ctx context.Context, productID string, quantityChange int64) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}

	adj, err := s.adjustLocked(ctx, productID, quantityChange)
	if err != nil {
		return err
	}

	// Fuera de la sección crítica: la publicación no debe alargar el lock.
	if err := s.publisher.PublishStockAdjusted(ctx, adj); err != nil {
		s.log.Warn().Err(err).
			Str("product_id", productID).
			Int64("version", adj.Version).
			Msg("publicar ajuste de stock")
	}
	return nil
}

func (s *StockService) adjustLocked(ctx context.Context, productID string, quantityChange int64) (entity.StockAdjustment, error) {
	lockCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}
	unlock, err := s.locks.Lock(lockCtx, productID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return entity.StockAdjustment{}, fmt.Errorf("%w: %v", domain.ErrLockTimeout, err)
		}
		return entity.StockAdjustment{}, err
	}
	defer unlock()

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return entity.StockAdjustment{}, fmt.Errorf("buscar producto: %w", err)
	}
	if product == nil {
		return entity.StockAdjustment{}, domain.ErrProductNotFound
	}

	projected, ok := product.ProjectedStock(quantityChange)
	if !ok {
		return entity.StockAdjustment{}, fmt.Errorf("%w: el ajuste desborda el stock de %s", domain.ErrInvalidInput, productID)
	}
	if projected < 0 {
		return entity.StockAdjustment{}, &domain.InsufficientStockError{
			ProductID: productID,
			Available: product.StockLevel,
			Requested: quantityChange,
		}
	}

	// Compare-and-swap: aplica solo si nadie confirmó otra versión desde la lectura.
	ok, err = s.repo.UpdateStock(ctx, productID, quantityChange, product.Version)
	if err != nil {
		return entity.StockAdjustment{}, fmt.Errorf("actualizar stock: %w", err)
	}
	if !ok {
		return entity.StockAdjustment{}, domain.ErrConcurrencyConflict
	}

	return entity.StockAdjustment{
		ID:             uuid.New().String(),
		ProductID:      productID,
		Type:           entity.AdjustmentTypeFor(quantityChange),
		QuantityChange: quantityChange,
		StockLevel:     projected,
		Version:        product.Version + 1,
		OccurredAt:     s.now(),
	}, nil
}

// IsRetryable indica si el error permite reintentar el mismo cambio lógico.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrConcurrencyConflict)
}
