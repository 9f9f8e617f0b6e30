package notify

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// KafkaNotifier publishes events to the inventory events topic from a single
// background goroutine, keyed by owner.
type KafkaNotifier struct {
	pub    Publisher
	queue  chan Event
	logger logger.ZapLogger
}

func NewKafkaNotifier(pub Publisher, buffer int, log logger.ZapLogger) *KafkaNotifier {
	return &KafkaNotifier{
		pub:    pub,
		queue:  make(chan Event, buffer),
		logger: log,
	}
}

func (k *KafkaNotifier) Notify(_ context.Context, events ...Event) {
	for _, e := range events {
		select {
		case k.queue <- e:
		default:
			k.logger.Warn("Dropping inventory event, publish queue full",
				zap.String("type", string(e.Type)), zap.String("owner_id", e.OwnerID))
		}
	}
}

// Run publishes queued events until ctx is cancelled.
func (k *KafkaNotifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-k.queue:
			value, err := e.Marshal()
			if err != nil {
				k.logger.Error("Failed to marshal inventory event", zap.Error(err))
				continue
			}
			pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := k.pub.Publish(pubCtx, e.OwnerID, value); err != nil {
				k.logger.Error("Failed to publish inventory event",
					zap.String("type", string(e.Type)), zap.Error(err))
			}
			cancel()
		}
	}
}
