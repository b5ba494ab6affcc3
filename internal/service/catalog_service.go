package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/querycache"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Query operation names, used as the first half of every cache key.
const (
	OpGetProducts    = "getProducts"
	OpGetProductByID = "getProductById"
)

// State is the outcome of a catalog read as seen by a view.
type State int

const (
	StatePending State = iota
	StateFulfilled
	StateRejected
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateFulfilled:
		return "fulfilled"
	case StateRejected:
		return "rejected"
	case StateNotFound:
		return "not_found"
	default:
		return "pending"
	}
}

// Result is a catalog read outcome. Err is set only for StateRejected.
type Result[T any] struct {
	State State
	Data  T
	Err   error
}

// ProductSource is the network side of the catalog; *catalog.Client implements it.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// CatalogService exposes the two catalog reads over the shared query cache.
type CatalogService struct {
	source ProductSource
	cache  *querycache.Cache
	logger *zap.Logger
}

// NewCatalogService creates a catalog service backed by cache.
func NewCatalogService(source ProductSource, cache *querycache.Cache) *CatalogService {
	return &CatalogService{
		source: source,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ProductsKey is the cache key of the product list.
func ProductsKey() querycache.Key {
	return querycache.NewKey(OpGetProducts)
}

// ProductKey is the cache key of one product.
func ProductKey(id string) querycache.Key {
	return querycache.NewKey(OpGetProductByID, id)
}

// ListProducts returns the product list, resolving it on a cache miss.
func (s *CatalogService) ListProducts(ctx context.Context) Result[[]models.Product] {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	res := listResult(s.cache.Fetch(ctx, s.listQuery()))
	span.SetAttributes(attribute.String("result.state", res.State.String()))
	return res
}

// GetProductByID returns one product, resolving it on a cache miss.
func (s *CatalogService) GetProductByID(ctx context.Context, id string) Result[models.Product] {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProductByID")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	res := productResult(s.cache.Fetch(ctx, s.productQuery(id)))
	span.SetAttributes(attribute.String("result.state", res.State.String()))
	return res
}

// PeekProducts reports the cached list state without issuing a request.
func (s *CatalogService) PeekProducts() Result[[]models.Product] {
	return listResult(s.cache.Peek(ProductsKey()))
}

// PeekProduct reports the cached product state without issuing a request.
func (s *CatalogService) PeekProduct(id string) Result[models.Product] {
	return productResult(s.cache.Peek(ProductKey(id)))
}

// RefetchProducts forces a new list request if the list was fetched before.
// A list nobody asked for stays unfetched and reports Pending.
func (s *CatalogService) RefetchProducts(ctx context.Context) Result[[]models.Product] {
	return listResult(s.refetch(ctx, ProductsKey()))
}

// RefetchProduct forces a new request for id if it was fetched before.
func (s *CatalogService) RefetchProduct(ctx context.Context, id string) Result[models.Product] {
	return productResult(s.refetch(ctx, ProductKey(id)))
}

// RefetchAll reloads every cached catalog query and returns how many failed.
func (s *CatalogService) RefetchAll(ctx context.Context) int {
	failed := 0
	for _, key := range s.cache.Keys() {
		if s.refetch(ctx, key).Status == querycache.StatusRejected {
			failed++
		}
	}
	return failed
}

// refetch reloads key from the network. A failed reload drops the entry and
// its stored payload, which is now known to be stale.
func (s *CatalogService) refetch(ctx context.Context, key querycache.Key) querycache.Snapshot {
	ctx, span := util.StartSpan(ctx, "CatalogService.Refetch")
	defer span.End()
	span.SetAttributes(attribute.String("query.key", key.String()))

	snap := s.cache.Refetch(ctx, key)
	if snap.Status == querycache.StatusRejected {
		s.cache.Invalidate(ctx, key)
		s.logger.Warn("Refetch failed, entry invalidated",
			zap.String("key", key.String()),
			zap.Error(snap.Err))
	}
	return snap
}

// SubscribeProducts keeps the list entry alive until the subscription is released.
func (s *CatalogService) SubscribeProducts() *querycache.Subscription {
	return s.cache.Subscribe(ProductsKey())
}

// SubscribeProduct keeps the entry for id alive until the subscription is released.
func (s *CatalogService) SubscribeProduct(id string) *querycache.Subscription {
	return s.cache.Subscribe(ProductKey(id))
}

func (s *CatalogService) listQuery() querycache.Query {
	return querycache.Query{
		Key: ProductsKey(),
		Fetch: func(ctx context.Context) (any, error) {
			return s.source.ListProducts(ctx)
		},
		Decode: func(payload []byte) (any, error) {
			var products []models.Product
			if err := json.Unmarshal(payload, &products); err != nil {
				return nil, err
			}
			return products, nil
		},
	}
}

func (s *CatalogService) productQuery(id string) querycache.Query {
	return querycache.Query{
		Key: ProductKey(id),
		Fetch: func(ctx context.Context) (any, error) {
			product, err := s.source.GetProduct(ctx, id)
			if err != nil {
				return nil, err
			}
			return *product, nil
		},
		Decode: func(payload []byte) (any, error) {
			var product models.Product
			if err := json.Unmarshal(payload, &product); err != nil {
				return nil, err
			}
			return product, nil
		},
	}
}

func listResult(snap querycache.Snapshot) Result[[]models.Product] {
	switch snap.Status {
	case querycache.StatusFulfilled:
		products, ok := snap.Value.([]models.Product)
		if !ok {
			return Result[[]models.Product]{State: StateRejected, Err: fmt.Errorf("unexpected payload %T for %s", snap.Value, snap.Key)}
		}
		return Result[[]models.Product]{State: StateFulfilled, Data: products}
	case querycache.StatusRejected:
		return Result[[]models.Product]{State: StateRejected, Err: snap.Err}
	default:
		return Result[[]models.Product]{State: StatePending}
	}
}

func productResult(snap querycache.Snapshot) Result[models.Product] {
	switch snap.Status {
	case querycache.StatusFulfilled:
		product, ok := snap.Value.(models.Product)
		if !ok {
			return Result[models.Product]{State: StateRejected, Err: fmt.Errorf("unexpected payload %T for %s", snap.Value, snap.Key)}
		}
		return Result[models.Product]{State: StateFulfilled, Data: product}
	case querycache.StatusRejected:
		if errors.Is(snap.Err, catalog.ErrNotFound) {
			return Result[models.Product]{State: StateNotFound}
		}
		return Result[models.Product]{State: StateRejected, Err: snap.Err}
	default:
		return Result[models.Product]{State: StatePending}
	}
}
