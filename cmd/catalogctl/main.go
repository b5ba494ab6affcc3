package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/config"
	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var timeout time.Duration

// rootCmd is the catalog event publisher
var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Publish catalog change events to running storefronts",
	Long: `Publish catalog change events on the catalog events topic.

Every storefront consuming the topic reloads the affected cached queries.
Brokers and topic come from KAFKA_BROKERS and KAFKA_TOPIC_CATALOG_EVENTS.`,
	SilenceUsage: true,
}

// productChangedCmd announces a change to one product
var productChangedCmd = &cobra.Command{
	Use:   "product-changed <id>",
	Short: "Reload one product and the product list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publish(cmd.Context(), func(ctx context.Context, p *broker.EventPublisher) error {
			return p.PublishProductChanged(ctx, &models.ProductChangedEvent{
				BaseEvent: newBaseEvent(models.EventTypeProductChanged),
				ProductID: args[0],
			})
		})
	},
}

// catalogChangedCmd announces a change to the whole catalog
var catalogChangedCmd = &cobra.Command{
	Use:   "catalog-changed",
	Short: "Reload every cached catalog query",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publish(cmd.Context(), func(ctx context.Context, p *broker.EventPublisher) error {
			return p.PublishCatalogChanged(ctx, &models.CatalogChangedEvent{
				BaseEvent: newBaseEvent(models.EventTypeCatalogChanged),
			})
		})
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "publish timeout")
	rootCmd.AddCommand(productChangedCmd, catalogChangedCmd)
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

func publish(ctx context.Context, send func(context.Context, *broker.EventPublisher) error) error {
	cfg := config.Load()
	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is not set")
	}

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer util.SyncLogger()

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalog)
	defer producer.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := send(ctx, broker.NewEventPublisher(producer)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "published to %s\n", cfg.Kafka.TopicCatalog)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
