package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cucumber/godog"

	"github.com/jhoicas/boutique-api/internal/application/inventory"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

type stockFeatureContext struct {
	repo      *fakeRepo
	svc       *inventory.StockService
	err       error
	successes int
}

func (c *stockFeatureContext) reset() {
	c.repo = newFakeRepo()
	c.svc = inventory.NewStockService(c.repo)
	c.err = nil
	c.successes = 0
}

func (c *stockFeatureContext) productWithStockAndVersion(id string, stock, version int64) error {
	c.repo.mu.Lock()
	defer c.repo.mu.Unlock()
	c.repo.products[id] = entity.Product{ID: id, StockLevel: stock, Version: version}
	return nil
}

func (c *stockFeatureContext) anotherWriterSetsStockBeforeUpdate(id string, stock int64) error {
	var once sync.Once
	c.repo.beforeUpdate = func() {
		once.Do(func() { c.repo.commitExternal(id, stock) })
	}
	return nil
}

func (c *stockFeatureContext) iAdjustProductBy(id string, delta int64) error {
	c.err = c.svc.AdjustStock(context.Background(), id, delta)
	if c.err == nil {
		c.successes++
	}
	return nil
}

func (c *stockFeatureContext) buyersConcurrentlyAdjust(n int, id string, delta int64) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.svc.AdjustStock(context.Background(), id, delta)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				c.successes++
			}
		}()
	}
	wg.Wait()
	return nil
}

func (c *stockFeatureContext) theAdjustmentSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("se esperaba éxito, se obtuvo %v", c.err)
	}
	return nil
}

var errorCodes = map[string]error{
	"INSUFFICIENT_STOCK":   domain.ErrInsufficientStock,
	"PRODUCT_NOT_FOUND":    domain.ErrProductNotFound,
	"CONCURRENCY_CONFLICT": domain.ErrConcurrencyConflict,
}

func (c *stockFeatureContext) theAdjustmentFailsWith(code string) error {
	want, ok := errorCodes[code]
	if !ok {
		return fmt.Errorf("código desconocido %q", code)
	}
	if !errors.Is(c.err, want) {
		return fmt.Errorf("se esperaba %s, se obtuvo %v", code, c.err)
	}
	return nil
}

func (c *stockFeatureContext) productHasStockAndVersion(id string, stock, version int64) error {
	p := c.repo.get(id)
	if p.StockLevel != stock || p.Version != version {
		return fmt.Errorf("producto %s: stock=%d version=%d, se esperaba stock=%d version=%d",
			id, p.StockLevel, p.Version, stock, version)
	}
	return nil
}

func (c *stockFeatureContext) exactlyAdjustmentsSucceed(n int) error {
	if c.successes != n {
		return fmt.Errorf("se esperaban %d ajustes exitosos, hubo %d", n, c.successes)
	}
	return nil
}

func InitializeStockScenario(ctx *godog.ScenarioContext) {
	tc := &stockFeatureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^product "([^"]*)" with stock (\d+) and version (\d+)$`, tc.productWithStockAndVersion)
	ctx.Step(`^another writer sets product "([^"]*)" stock to (\d+) before the update$`, tc.anotherWriterSetsStockBeforeUpdate)

	// When
	ctx.Step(`^I adjust product "([^"]*)" by (-?\d+)$`, tc.iAdjustProductBy)
	ctx.Step(`^(\d+) buyers concurrently adjust product "([^"]*)" by (-?\d+)$`, tc.buyersConcurrentlyAdjust)

	// Then
	ctx.Step(`^the adjustment succeeds$`, tc.theAdjustmentSucceeds)
	ctx.Step(`^the adjustment fails with "([^"]*)"$`, tc.theAdjustmentFailsWith)
	ctx.Step(`^product "([^"]*)" has stock (\d+) and version (\d+)$`, tc.productHasStockAndVersion)
	ctx.Step(`^exactly (\d+) adjustments? succeeds?$`, tc.exactlyAdjustmentsSucceed)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeStockScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/stock_adjustment.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
