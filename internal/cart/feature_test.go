package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/dukerupert/vortex/internal/domain"
)

type cartFeatureContext struct {
	products map[string]domain.Product
	storage  *mockStorage
	store    *Store
	loaded   LoadResult
	lastSave PersistResult
}

func (c *cartFeatureContext) reset() {
	c.products = make(map[string]domain.Product)
	c.storage = newMockStorage()
	c.store = nil
	c.loaded = ""
	c.lastSave = PersistResult{}
}

func (c *cartFeatureContext) aProductPricedInSizes(id string, price int, sizes string) error {
	c.products[id] = domain.Product{
		ID:       id,
		Name:     id,
		Price:    int64(price),
		Category: domain.CategoryUnisex,
		Sizes:    strings.Split(sizes, ","),
		InStock:  true,
	}
	return nil
}

func (c *cartFeatureContext) anEmptyCart() error {
	c.store, c.loaded = Load(context.Background(), c.storage, Key("feature"), discardLogger())
	if c.loaded != Empty {
		return fmt.Errorf("expected empty cart, got %s", c.loaded)
	}
	return nil
}

func (c *cartFeatureContext) sessionStorageRejectsWrites() error {
	c.storage.SetFunc = func(ctx context.Context, key string, value []byte) error {
		return errors.New("quota exceeded")
	}
	return nil
}

func (c *cartFeatureContext) iAddOfInSize(quantity int, id, size string) error {
	p, ok := c.products[id]
	if !ok {
		return fmt.Errorf("unknown product %q", id)
	}
	res, err := c.store.AddItem(context.Background(), p, size, quantity)
	if err != nil {
		return err
	}
	c.lastSave = res
	return nil
}

func (c *cartFeatureContext) iUpdateSizeToQuantity(id, size string, quantity int) error {
	res, err := c.store.UpdateQuantity(context.Background(), id, size, quantity)
	if err != nil {
		return err
	}
	c.lastSave = res
	return nil
}

func (c *cartFeatureContext) iRemoveSize(id, size string) error {
	c.lastSave = c.store.RemoveItem(context.Background(), id, size)
	return nil
}

func (c *cartFeatureContext) iClearTheCart() error {
	c.lastSave = c.store.Clear(context.Background())
	return nil
}

func (c *cartFeatureContext) iReloadTheCart() error {
	c.store, c.loaded = Load(context.Background(), c.storage, Key("feature"), discardLogger())
	return nil
}

func (c *cartFeatureContext) theCartWasRestored() error {
	if c.loaded != Restored {
		return fmt.Errorf("expected restored cart, got %s", c.loaded)
	}
	return nil
}

func (c *cartFeatureContext) theLastSaveWasDegraded() error {
	if !c.lastSave.Degraded() {
		return errors.New("expected the last save to be degraded")
	}
	return nil
}

func (c *cartFeatureContext) theCartHasLines(n int) error {
	if got := len(c.store.Lines()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartFeatureContext) theLineSizeHasQuantity(id, size string, quantity int) error {
	for _, l := range c.store.Lines() {
		if l.Product.ID == id && l.Size == size {
			if l.Quantity != quantity {
				return fmt.Errorf("expected quantity %d, got %d", quantity, l.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("no line for %s/%s", id, size)
}

func (c *cartFeatureContext) theCartTotalsAreItemsAnd(items, price int) error {
	if got := c.store.TotalItems(); got != items {
		return fmt.Errorf("expected %d items, got %d", items, got)
	}
	if got := c.store.TotalPrice(); got != int64(price) {
		return fmt.Errorf("expected total %d, got %d", price, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartFeatureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^a product "([^"]*)" priced (\d+) in sizes "([^"]*)"$`, tc.aProductPricedInSizes)
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^session storage rejects writes$`, tc.sessionStorageRejectsWrites)

	// When
	ctx.Step(`^I add (-?\d+) of "([^"]*)" in size "([^"]*)"$`, tc.iAddOfInSize)
	ctx.Step(`^I update "([^"]*)" size "([^"]*)" to quantity (-?\d+)$`, tc.iUpdateSizeToQuantity)
	ctx.Step(`^I remove "([^"]*)" size "([^"]*)"$`, tc.iRemoveSize)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^I reload the cart$`, tc.iReloadTheCart)

	// Then
	ctx.Step(`^the cart was restored$`, tc.theCartWasRestored)
	ctx.Step(`^the last save was degraded$`, tc.theLastSaveWasDegraded)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the line "([^"]*)" size "([^"]*)" has quantity (\d+)$`, tc.theLineSizeHasQuantity)
	ctx.Step(`^the cart totals are (\d+) items and (\d+)$`, tc.theCartTotalsAreItemsAnd)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
