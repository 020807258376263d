package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"storefront/internal/config"
	"storefront/internal/entity"
	"storefront/internal/service"
)

type Consumer struct {
	catalogSvc *service.CatalogService
}

func NewConsumer(catalogSvc *service.CatalogService) *Consumer {
	return &Consumer{catalogSvc: catalogSvc}
}

// StartKafkaConsumer reads order events and applies the matching stock
// changes. Runs until the process exits.
func (c *Consumer) StartKafkaConsumer() {
	orderReader := config.NewKafkaReader(config.OrderTopic, "storefront-stock-group")

	for {
		ctx := context.Background()
		msg, err := orderReader.ReadMessage(ctx)
		if err != nil {
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage handles one order event. Keys look like
// order.created.<id> or order.cancelled.<id>.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	parts := strings.Split(string(msg.Key), ".")
	if len(parts) < 3 {
		log.Error().Msgf("Unknown event key: %s", string(msg.Key))
		return
	}
	eventType := parts[1]

	switch eventType {
	case "created":
		for _, item := range order.Items {
			if err := c.catalogSvc.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
				log.Error().Msgf("Error updating stock for product %d: %v", item.ProductID, err)
			}
		}
	case "cancelled":
		for _, item := range order.Items {
			if err := c.catalogSvc.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
				log.Error().Msgf("Error updating stock for product %d: %v", item.ProductID, err)
			}
		}
	default:
		log.Error().Msgf("Unknown order event type: %s", eventType)
	}
}
