// Package views holds the page view models. Each view owns its catalog
// subscription and loading/error state; App routes between them.
package views

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/querycache"
	"storefront/internal/router"
	"storefront/internal/service"
)

// Catalog is the product read side the views depend on; *service.CatalogService
// implements it.
type Catalog interface {
	ListProducts(ctx context.Context) service.Result[[]models.Product]
	GetProductByID(ctx context.Context, id string) service.Result[models.Product]
	PeekProducts() service.Result[[]models.Product]
	PeekProduct(id string) service.Result[models.Product]
	SubscribeProducts() *querycache.Subscription
	SubscribeProduct(id string) *querycache.Subscription
}

// Submitter runs the side effect of an accepted login form.
type Submitter interface {
	SubmitLogin(ctx context.Context, email string) (*models.LoginSubmission, error)
}

// Navigator changes the active route.
type Navigator interface {
	GoTo(ctx context.Context, path string) router.Route
}

// Status is what a data-backed view is currently showing.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusNotFound:
		return "not_found"
	default:
		return "loading"
	}
}

func statusOf(state service.State) Status {
	switch state {
	case service.StateFulfilled:
		return StatusReady
	case service.StateRejected:
		return StatusError
	case service.StateNotFound:
		return StatusNotFound
	default:
		return StatusLoading
	}
}

// LoadingText is the placeholder shown while a view waits on the catalog.
const LoadingText = "Loading..."

// settle waits until *done (read through current) stops changing and is closed.
func settle(ctx context.Context, current func() (chan struct{}, uint64)) error {
	for {
		done, gen := current()
		if done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if _, now := current(); now == gen {
			return nil
		}
	}
}
