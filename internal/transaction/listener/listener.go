package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction"
	"github.com/fekuna/omnipos-inventory-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderListener turns OrderCreated events into stock-out transactions.
type OrderListener struct {
	consumer MessageReader
	uc       transaction.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderListener(consumer MessageReader, uc transaction.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID         string             `json:"id"`
	MerchantID string             `json:"merchant_id"`
	DepotID    string             `json:"depot_id"`
	Items      []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		if item.Quantity <= 0 || item.Quantity != math.Trunc(item.Quantity) {
			l.logger.Warn("Skipping order item without a whole quantity",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.Float64("quantity", item.Quantity))
			continue
		}

		input := &dto.RecordInput{
			OwnerID:     event.Payload.MerchantID,
			ProductID:   item.ProductID,
			Type:        string(model.TransactionStockOut),
			Quantity:    int64(item.Quantity),
			DepotID:     event.Payload.DepotID,
			Reason:      "Order Sale",
			Notes:       fmt.Sprintf("order %s (event %s)", event.Payload.ID, event.EventID),
			PerformedBy: "system",
		}

		if _, err := l.uc.RecordStockChange(ctx, input); err != nil {
			l.logger.Error("Failed to record stock-out for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
