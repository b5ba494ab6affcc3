// Package testutil holds catalog fixtures and fakes shared by package tests.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

// Products mirrors the demo catalog.
func Products() []models.Product {
	return []models.Product{
		{ID: "SBX-1234", Name: "Sneakers 👟", Company: "Shoes4All", Retail: 8999, IsAvailable: true},
		{ID: "LGH-001", Name: "Flashlight 🔦", Company: "Lumos LLC.", Retail: 4999, IsAvailable: true},
		{ID: "03072023-CRMC", Name: "Flower Vase 🌸", Company: "Florean's Supplies", Retail: 1900, IsAvailable: false},
		{ID: "XX02032023", Name: "Magical Wand 🪄", Company: "Ollivanders", Retail: 52425, IsAvailable: false},
		{ID: "NO-CAP", Name: "Winter Hat 🧢", Company: "Bygone Ages", Retail: 5200, IsAvailable: true},
		{ID: "SPRG-LG-24", Name: "Reusable coffee mug ☕️", Company: "Tweek Bros. Coffeehouse", Retail: 2899, IsAvailable: true},
	}
}

// FakeSource is an in-memory product source that counts requests. Gates let
// a test hold individual requests open.
type FakeSource struct {
	mu       sync.Mutex
	products []models.Product
	err      error
	gates    map[string]chan struct{}

	ListCalls atomic.Int32
	GetCalls  atomic.Int32
}

// NewFakeSource returns a source serving products.
func NewFakeSource(products []models.Product) *FakeSource {
	return &FakeSource{products: products, gates: map[string]chan struct{}{}}
}

// FailWith makes every request fail with err until cleared with nil.
func (f *FakeSource) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Hold blocks requests for key ("" for the list, otherwise a product id)
// until the returned function is called.
func (f *FakeSource) Hold(key string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (f *FakeSource) wait(ctx context.Context, key string) error {
	f.mu.Lock()
	ch := f.gates[key]
	f.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListProducts implements the product source.
func (f *FakeSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	f.ListCalls.Add(1)
	if err := f.wait(ctx, ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Product(nil), f.products...), nil
}

// GetProduct implements the product source.
func (f *FakeSource) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	f.GetCalls.Add(1)
	if err := f.wait(ctx, id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, catalog.ErrNotFound
}
