package views

import (
	"context"
	"sync"

	"storefront/internal/currency"
	"storefront/internal/models"
	"storefront/internal/querycache"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// ProductDetail renders the fields of one product.
type ProductDetail struct {
	ID      string
	Name    string
	Price   string
	InStock string
}

// DetailModel is what the product detail page renders.
type DetailModel struct {
	Status   Status
	ID       string
	Product  ProductDetail
	BackHref string
	Err      string
}

// DetailView shows one product. Every load is tagged with the id and a
// generation; a resolution is applied only if both still match, so a slow
// response for a product the user already left never overwrites the page.
type DetailView struct {
	catalog Catalog
	nav     Navigator
	ctx     context.Context
	logger  *zap.Logger

	mu      sync.Mutex
	mounted bool
	id      string
	gen     uint64
	done    chan struct{}
	result  service.Result[models.Product]
	sub     *querycache.Subscription
}

func newDetailView(ctx context.Context, catalog Catalog, nav Navigator) *DetailView {
	return &DetailView{catalog: catalog, nav: nav, ctx: ctx, logger: util.GetLogger()}
}

// SetID mounts the view for id, or switches it to id. Setting the id the
// view already shows does nothing.
func (v *DetailView) SetID(id string) {
	v.mu.Lock()
	if v.mounted && v.id == id {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	v.id = id
	v.gen++
	gen := v.gen
	done := make(chan struct{})
	v.done = done
	v.result = service.Result[models.Product]{State: service.StatePending}
	if cached := v.catalog.PeekProduct(id); cached.State == service.StateFulfilled {
		v.result = cached
	}
	old := v.sub
	v.sub = v.catalog.SubscribeProduct(id)
	v.mu.Unlock()

	if old != nil {
		old.Release()
	}
	go v.load(gen, id, done)
}

func (v *DetailView) load(gen uint64, id string, done chan struct{}) {
	defer close(done)

	res := v.catalog.GetProductByID(v.ctx, id)

	v.mu.Lock()
	if gen != v.gen || id != v.id {
		v.mu.Unlock()
		util.StaleResponsesDiscarded.Inc()
		v.logger.Debug("Discarding stale product response",
			zap.String("product_id", id),
			zap.Uint64("generation", gen))
		return
	}
	v.result = res
	v.mu.Unlock()

	if res.State == service.StateNotFound {
		v.nav.GoTo(v.ctx, router.PathNotFound)
	}
}

// Unmount releases the subscription and orphans any in-flight load.
func (v *DetailView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted {
		return
	}
	v.mounted = false
	v.gen++
	v.done = nil
	if v.sub != nil {
		v.sub.Release()
		v.sub = nil
	}
}

// Settle waits for the load of the current id to finish.
func (v *DetailView) Settle(ctx context.Context) error {
	return settle(ctx, func() (chan struct{}, uint64) {
		v.mu.Lock()
		defer v.mu.Unlock()
		return v.done, v.gen
	})
}

// Back navigates to the product list.
func (v *DetailView) Back(ctx context.Context) router.Route {
	return v.nav.GoTo(ctx, router.PathProducts)
}

// ID returns the id the view currently shows.
func (v *DetailView) ID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.id
}

// Model renders the current state.
func (v *DetailView) Model() DetailModel {
	v.mu.Lock()
	res, id := v.result, v.id
	v.mu.Unlock()

	m := DetailModel{Status: statusOf(res.State), ID: id, BackHref: router.PathProducts}
	if res.Err != nil {
		m.Err = res.Err.Error()
	}
	if res.State == service.StateFulfilled {
		p := res.Data
		m.Product = ProductDetail{
			ID:      p.ID,
			Name:    p.Name,
			Price:   currency.Format(p.Retail),
			InStock: detailAvailability(p.IsAvailable),
		}
	}
	return m
}

func detailAvailability(ok bool) string {
	if ok {
		return "Yes"
	}
	return "No"
}
