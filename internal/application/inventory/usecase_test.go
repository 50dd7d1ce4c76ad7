package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/boutique-api/internal/application/inventory"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/infrastructure/memory"
	"github.com/jhoicas/boutique-api/pkg/keylock"
)

// fakeRepo repositorio con estado explícito y un hook que corre entre la lectura y el CAS.
type fakeRepo struct {
	mu           sync.Mutex
	products     map[string]entity.Product
	beforeUpdate func()
	updateCalls  int
	findErr      error
}

func newFakeRepo(products ...entity.Product) *fakeRepo {
	r := &fakeRepo{products: make(map[string]entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeRepo) UpdateStock(_ context.Context, id string, delta, expectedVersion int64) (bool, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	p, ok := r.products[id]
	if !ok || p.Version != expectedVersion || p.StockLevel+delta < 0 {
		return false, nil
	}
	p.StockLevel += delta
	p.Version++
	r.products[id] = p
	return true, nil
}

// commitExternal simula a otro proceso que confirma un cambio sin pasar por el lock.
func (r *fakeRepo) commitExternal(id string, stock int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	p.StockLevel = stock
	p.Version++
	r.products[id] = p
}

func (r *fakeRepo) get(id string) entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.StockAdjustment
	err    error
}

func (p *recordingPublisher) PublishStockAdjusted(_ context.Context, adj entity.StockAdjustment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, adj)
	return p.err
}

// ────────────────────────────────────────────────────────────────
// Escenarios concretos
// ────────────────────────────────────────────────────────────────

func TestAdjustStock_VentaDescuentaYSubeVersion(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 10, Version: 1})
	svc := inventory.NewStockService(repo)

	require.NoError(t, svc.AdjustStock(context.Background(), "P1", -3))

	p := repo.get("P1")
	assert.Equal(t, int64(7), p.StockLevel)
	assert.Equal(t, int64(2), p.Version)
}

func TestAdjustStock_StockInsuficienteNoCambiaEstado(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 2, Version: 3})
	svc := inventory.NewStockService(repo)

	err := svc.AdjustStock(context.Background(), "P1", -5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Available)
	assert.Equal(t, int64(-5), insufficient.Requested)

	p := repo.get("P1")
	assert.Equal(t, int64(2), p.StockLevel)
	assert.Equal(t, int64(3), p.Version)
	assert.Zero(t, repo.updateCalls, "no debe intentar el CAS si la validación falla")
}

func TestAdjustStock_ProductoInexistente(t *testing.T) {
	svc := inventory.NewStockService(newFakeRepo())
	err := svc.AdjustStock(context.Background(), "P2", -1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAdjustStock_CarreraEntreLecturaYCASDevuelveConflicto(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P3", StockLevel: 5, Version: 4})
	repo.beforeUpdate = func() { repo.commitExternal("P3", 1) }
	svc := inventory.NewStockService(repo)

	err := svc.AdjustStock(context.Background(), "P3", -2)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.True(t, inventory.IsRetryable(err))

	p := repo.get("P3")
	assert.Equal(t, int64(1), p.StockLevel, "queda lo que confirmó el otro escritor")
	assert.Equal(t, int64(5), p.Version)
}

func TestAdjustStock_ReposicionDesdeCero(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P4", StockLevel: 0, Version: 0})
	svc := inventory.NewStockService(repo)

	require.NoError(t, svc.AdjustStock(context.Background(), "P4", 20))
	assert.Equal(t, int64(20), repo.get("P4").StockLevel)
}

// ────────────────────────────────────────────────────────────────
// Bordes
// ────────────────────────────────────────────────────────────────

func TestAdjustStock_DescuentoExactoDejaCero(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 4})
	svc := inventory.NewStockService(repo)

	require.NoError(t, svc.AdjustStock(context.Background(), "P1", -4))
	assert.Equal(t, int64(0), repo.get("P1").StockLevel)
}

func TestAdjustStock_UnoMasQueElStockFalla(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 4, Version: 2})
	svc := inventory.NewStockService(repo)

	err := svc.AdjustStock(context.Background(), "P1", -5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.Product{ID: "P1", StockLevel: 4, Version: 2}, repo.get("P1"))
}

func TestAdjustStock_CambioCeroSubeSoloLaVersion(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 9, Version: 6})
	svc := inventory.NewStockService(repo)

	require.NoError(t, svc.AdjustStock(context.Background(), "P1", 0))

	p := repo.get("P1")
	assert.Equal(t, int64(9), p.StockLevel)
	assert.Equal(t, int64(7), p.Version)
}

func TestAdjustStock_ReposicionQueDesbordaEsValidacion(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 10})
	svc := inventory.NewStockService(repo)

	err := svc.AdjustStock(context.Background(), "P1", math.MaxInt64)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.Product{ID: "P1", StockLevel: 10}, repo.get("P1"))

	require.NoError(t, svc.AdjustStock(context.Background(), "P1", math.MaxInt64-10))
	assert.Equal(t, int64(math.MaxInt64), repo.get("P1").StockLevel)
}

func TestAdjustStock_IDVacioEsValidacion(t *testing.T) {
	repo := newFakeRepo()
	svc := inventory.NewStockService(repo)
	assert.ErrorIs(t, svc.AdjustStock(context.Background(), "", 1), domain.ErrInvalidInput)
}

func TestAdjustStock_ErrorDeLecturaSePropaga(t *testing.T) {
	boom := errors.New("disco lleno")
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 1})
	repo.findErr = boom
	svc := inventory.NewStockService(repo)

	err := svc.AdjustStock(context.Background(), "P1", 1)
	assert.ErrorIs(t, err, boom)
}

func TestAdjustStock_LockOcupadoHastaTimeout(t *testing.T) {
	locks := keylock.New()
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 1})
	svc := inventory.NewStockService(repo, inventory.WithLocks(locks))

	unlock, err := locks.Lock(context.Background(), "P1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = svc.AdjustStock(ctx, "P1", 1)
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.Equal(t, int64(1), repo.get("P1").StockLevel)
}

func TestAdjustStock_CancelacionNoEsTimeout(t *testing.T) {
	locks := keylock.New()
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 1})
	svc := inventory.NewStockService(repo,
		inventory.WithLocks(locks),
		inventory.WithLockTimeout(time.Second),
	)

	unlock, err := locks.Lock(context.Background(), "P1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	err = svc.AdjustStock(ctx, "P1", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrLockTimeout)
	assert.Equal(t, int64(1), repo.get("P1").StockLevel)
}

func TestAdjustStock_WithLockTimeout(t *testing.T) {
	locks := keylock.New()
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 1})
	svc := inventory.NewStockService(repo,
		inventory.WithLocks(locks),
		inventory.WithLockTimeout(20*time.Millisecond),
	)

	unlock, err := locks.Lock(context.Background(), "P1")
	require.NoError(t, err)

	err = svc.AdjustStock(context.Background(), "P1", 1)
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	unlock()

	require.NoError(t, svc.AdjustStock(context.Background(), "P1", 1))
	assert.Equal(t, int64(2), repo.get("P1").StockLevel)
}

func TestAdjustStock_LiberaElLockTrasUnError(t *testing.T) {
	locks := keylock.New()
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 1})
	svc := inventory.NewStockService(repo, inventory.WithLocks(locks))

	assert.Error(t, svc.AdjustStock(context.Background(), "P1", -2))
	assert.Equal(t, 0, locks.Len())

	unlock, ok := locks.TryLock("P1")
	require.True(t, ok)
	unlock()
}

func TestAdjustStock_PublicaTrasConfirmar(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 10, Version: 1})
	pub := &recordingPublisher{}
	svc := inventory.NewStockService(repo, inventory.WithPublisher(pub))

	require.NoError(t, svc.AdjustStock(context.Background(), "P1", -3))
	assert.Error(t, svc.AdjustStock(context.Background(), "P1", -30))

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, "P1", ev.ProductID)
	assert.Equal(t, entity.AdjustmentTypeSale, ev.Type)
	assert.Equal(t, int64(7), ev.StockLevel)
	assert.Equal(t, int64(2), ev.Version)
	assert.NotEmpty(t, ev.ID)
}

func TestAdjustStock_FalloAlPublicarNoRevierte(t *testing.T) {
	repo := newFakeRepo(entity.Product{ID: "P1", StockLevel: 10})
	pub := &recordingPublisher{err: errors.New("broker caído")}
	svc := inventory.NewStockService(repo, inventory.WithPublisher(pub))

	require.NoError(t, svc.AdjustStock(context.Background(), "P1", 5))
	assert.Equal(t, int64(15), repo.get("P1").StockLevel)
}

// ────────────────────────────────────────────────────────────────
// Propiedades concurrentes
// ────────────────────────────────────────────────────────────────

func seedMemory(t *testing.T, id string, stock int64) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Create(context.Background(), &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: id, Category: "Saree", StockLevel: stock, Price: decimal.NewFromInt(10),
	}))
	return s
}

func TestAdjustStock_ConcurrenteConservaLaSuma(t *testing.T) {
	ctx := context.Background()
	store := seedMemory(t, "P1", 50)
	svc := inventory.NewStockService(store)

	deltas := []int64{-7, 3, -12, 5, -9, -20, 8, -4, -15, 2, -6, -11, 1, -3, 10, -25}
	var sum, successes atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range deltas {
		d := d
		g.Go(func() error {
			err := svc.AdjustStock(gctx, "P1", d)
			switch {
			case err == nil:
				sum.Add(d)
				successes.Add(1)
				return nil
			case errors.Is(err, domain.ErrInsufficientStock):
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait(), "con lock en proceso no debe haber conflictos")

	p, err := store.FindByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 50+sum.Load(), p.StockLevel)
	assert.GreaterOrEqual(t, p.StockLevel, int64(0))
	assert.Equal(t, successes.Load(), p.Version)
}

func TestAdjustStock_UltimaUnidadSoloUnoGana(t *testing.T) {
	ctx := context.Background()
	store := seedMemory(t, "P1", 1)
	svc := inventory.NewStockService(store)

	var ok, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			err := svc.AdjustStock(ctx, "P1", -1)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrConcurrencyConflict):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(1), rejected.Load())
	p, _ := store.FindByID(ctx, "P1")
	assert.Equal(t, int64(0), p.StockLevel)
}

// Dos servicios con locks independientes simulan dos procesos sobre la misma base:
// solo el CAS los protege y los perdedores reciben conflicto, nunca stock negativo.
func TestAdjustStock_DosProcesosSinLockCompartido(t *testing.T) {
	ctx := context.Background()
	store := seedMemory(t, "P1", 30)
	a := inventory.NewStockService(store)
	b := inventory.NewStockService(store)

	var sum, successes atomic.Int64
	var g errgroup.Group
	for i := 0; i < 40; i++ {
		svc := a
		if i%2 == 1 {
			svc = b
		}
		g.Go(func() error {
			err := svc.AdjustStock(ctx, "P1", -1)
			switch {
			case err == nil:
				sum.Add(-1)
				successes.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrConcurrencyConflict):
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	p, _ := store.FindByID(ctx, "P1")
	assert.Equal(t, 30+sum.Load(), p.StockLevel)
	assert.GreaterOrEqual(t, p.StockLevel, int64(0))
	assert.Equal(t, successes.Load(), p.Version)
}

func TestAdjustStock_ProductosDistintosEnParalelo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ids := []string{"A", "B", "C", "D"}
	for _, id := range ids {
		require.NoError(t, store.Create(ctx, &entity.Product{ID: id, SKU: id, Name: id, Category: "x", StockLevel: 100}))
	}
	svc := inventory.NewStockService(store)

	var g errgroup.Group
	for _, id := range ids {
		for i := 0; i < 25; i++ {
			g.Go(func() error { return svc.AdjustStock(ctx, id, -2) })
		}
	}
	require.NoError(t, g.Wait())

	for _, id := range ids {
		p, _ := store.FindByID(ctx, id)
		assert.Equal(t, int64(50), p.StockLevel, id)
		assert.Equal(t, int64(25), p.Version, id)
	}
}

func TestFindByID_ReflejaElCambioConfirmado(t *testing.T) {
	ctx := context.Background()
	store := seedMemory(t, "P1", 10)
	svc := inventory.NewStockService(store)

	require.NoError(t, svc.AdjustStock(ctx, "P1", -4))
	p, err := store.FindByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.StockLevel)
	assert.Equal(t, int64(1), p.Version)
}
