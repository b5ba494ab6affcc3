package worker

import (
	"context"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// CatalogRefresher reloads cached catalog reads; *service.CatalogService
// implements it.
type CatalogRefresher interface {
	RefetchProducts(ctx context.Context) service.Result[[]models.Product]
	RefetchProduct(ctx context.Context, id string) service.Result[models.Product]
	RefetchAll(ctx context.Context) int
}

// CatalogWorker reloads cached catalog queries when the catalog owner
// announces a change.
type CatalogWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	catalog      CatalogRefresher
	logger       *zap.Logger
}

// NewCatalogWorker creates a new catalog worker
func NewCatalogWorker(consumer *broker.Consumer, catalog CatalogRefresher) *CatalogWorker {
	w := &CatalogWorker{
		consumer: consumer,
		catalog:  catalog,
		logger:   util.GetLogger(),
	}

	w.eventHandler = broker.NewEventHandler()
	w.eventHandler.OnProductChanged(w.HandleProductChanged)
	w.eventHandler.OnCatalogChanged(w.HandleCatalogChanged)

	return w
}

// Handler routes raw messages to the worker.
func (w *CatalogWorker) Handler() *broker.EventHandler {
	return w.eventHandler
}

// Start starts the worker
func (w *CatalogWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting catalog worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CatalogWorker) Stop() error {
	w.logger.Info("Stopping catalog worker")
	return w.consumer.Close()
}

// HandleProductChanged reloads the product and the list it appears in.
// Keys nobody has fetched yet stay unfetched.
func (w *CatalogWorker) HandleProductChanged(ctx context.Context, event *models.ProductChangedEvent) error {
	ctx, span := util.StartSpan(ctx, "CatalogWorker.HandleProductChanged")
	defer span.End()

	w.logger.Info("Product changed", zap.String("product_id", event.ProductID))
	product := w.catalog.RefetchProduct(ctx, event.ProductID)
	list := w.catalog.RefetchProducts(ctx)
	if product.State == service.StateRejected || list.State == service.StateRejected {
		w.logger.Warn("Reload after product change failed",
			zap.String("product_id", event.ProductID),
			zap.String("product", product.State.String()),
			zap.String("list", list.State.String()))
	}
	return nil
}

// HandleCatalogChanged reloads every cached query.
func (w *CatalogWorker) HandleCatalogChanged(ctx context.Context, event *models.CatalogChangedEvent) error {
	ctx, span := util.StartSpan(ctx, "CatalogWorker.HandleCatalogChanged")
	defer span.End()

	failed := w.catalog.RefetchAll(ctx)
	w.logger.Info("Catalog changed", zap.Int("failed", failed))
	return nil
}
