package views

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storefront/internal/currency"
	"storefront/internal/models"
	"storefront/internal/querycache"
	"storefront/internal/router"
	"storefront/internal/service"
)

// Column is a sortable product table column.
type Column string

const (
	ColumnName      Column = "name"
	ColumnCompany   Column = "company"
	ColumnRetail    Column = "retail"
	ColumnAvailable Column = "available"
)

var columns = []struct {
	col   Column
	title string
}{
	{ColumnName, "Product Name"},
	{ColumnCompany, "Company"},
	{ColumnRetail, "Suggested Retail Price ($USD)"},
	{ColumnAvailable, "In Stock?"},
}

// ParseColumn returns the column named s.
func ParseColumn(s string) (Column, bool) {
	for _, c := range columns {
		if string(c.col) == s {
			return c.col, true
		}
	}
	return "", false
}

// SortOrder is the table's click-sort state. The zero value keeps catalog order.
type SortOrder struct {
	Column Column
	Desc   bool
}

// ColumnHeader renders one table header.
type ColumnHeader struct {
	Column Column
	Title  string
	Active bool
	Desc   bool
}

// ProductRow renders one table row.
type ProductRow struct {
	ID           string
	Name         string
	Company      string
	Price        string
	Availability string
	Href         string
}

// ListModel is what the product list page renders.
type ListModel struct {
	Status  Status
	Headers []ColumnHeader
	Rows    []ProductRow
	Sort    SortOrder
	Err     string
}

// ListView shows the product table.
type ListView struct {
	catalog Catalog
	nav     Navigator
	ctx     context.Context

	mu      sync.Mutex
	mounted bool
	gen     uint64
	done    chan struct{}
	result  service.Result[[]models.Product]
	sort    SortOrder
	sub     *querycache.Subscription
}

func newListView(ctx context.Context, catalog Catalog, nav Navigator) *ListView {
	return &ListView{catalog: catalog, nav: nav, ctx: ctx}
}

// Mount subscribes to the list and starts loading it. Mounting a mounted
// view does nothing.
func (v *ListView) Mount() {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	v.gen++
	gen := v.gen
	done := make(chan struct{})
	v.done = done
	// cached rows render on the first frame
	v.result = service.Result[[]models.Product]{State: service.StatePending}
	if cached := v.catalog.PeekProducts(); cached.State == service.StateFulfilled {
		v.result = cached
	}
	v.sub = v.catalog.SubscribeProducts()
	v.mu.Unlock()

	go func() {
		res := v.catalog.ListProducts(v.ctx)
		v.mu.Lock()
		if gen == v.gen {
			v.result = res
		}
		v.mu.Unlock()
		close(done)
	}()
}

// Unmount releases the subscription. Sort state is kept for the next mount.
func (v *ListView) Unmount() {
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

// Settle waits for the current load to finish.
func (v *ListView) Settle(ctx context.Context) error {
	return settle(ctx, func() (chan struct{}, uint64) {
		v.mu.Lock()
		defer v.mu.Unlock()
		return v.done, v.gen
	})
}

// SortBy applies a header click: a new column sorts ascending, the same
// column again flips direction.
func (v *ListView) SortBy(col Column) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sort.Column == col {
		v.sort.Desc = !v.sort.Desc
		return
	}
	v.sort = SortOrder{Column: col}
}

// SetSort replaces the sort state.
func (v *ListView) SetSort(order SortOrder) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = order
}

// Activate navigates to the detail page of product id.
func (v *ListView) Activate(ctx context.Context, id string) router.Route {
	return v.nav.GoTo(ctx, router.ProductPath(id))
}

// Model renders the current state.
func (v *ListView) Model() ListModel {
	v.mu.Lock()
	res, order := v.result, v.sort
	v.mu.Unlock()

	m := ListModel{Status: statusOf(res.State), Sort: order}
	for _, c := range columns {
		m.Headers = append(m.Headers, ColumnHeader{
			Column: c.col,
			Title:  c.title,
			Active: order.Column == c.col,
			Desc:   order.Column == c.col && order.Desc,
		})
	}
	if res.Err != nil {
		m.Err = res.Err.Error()
	}
	if res.State != service.StateFulfilled {
		return m
	}

	products := append([]models.Product(nil), res.Data...)
	sortProducts(products, order)
	for _, p := range products {
		m.Rows = append(m.Rows, ProductRow{
			ID:           p.ID,
			Name:         p.Name,
			Company:      p.Company,
			Price:        currency.Format(p.Retail),
			Availability: listAvailability(p.IsAvailable),
			Href:         router.ProductPath(p.ID),
		})
	}
	return m
}

func listAvailability(ok bool) string {
	if ok {
		return "Yes"
	}
	return "Sold out!"
}

func sortProducts(products []models.Product, order SortOrder) {
	var less func(a, b models.Product) bool
	switch order.Column {
	case ColumnName:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case ColumnCompany:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Company) < strings.ToLower(b.Company) }
	case ColumnRetail:
		less = func(a, b models.Product) bool { return a.Retail < b.Retail }
	case ColumnAvailable:
		less = func(a, b models.Product) bool { return a.IsAvailable && !b.IsAvailable }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		if order.Desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}
