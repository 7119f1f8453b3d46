package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-service/internal/config"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/observability"
)

// Publisher fans events out to other processes.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService forwards committed domain events to a pub/sub channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service. A nil publisher keeps events in process.
func NewNotificationService(
	dispatcher events.Dispatcher,
	publisher Publisher,
	logger *zap.Logger,
	metrics *observability.Metrics,
	cfg config.NotificationConfig,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil || !n.cfg.Enabled {
		return
	}
	for _, t := range events.AllEventTypes {
		n.dispatcher.Subscribe(t, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("entity_id", event.EntityID),
		zap.Any("payload", event.Payload))

	if n.publisher == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	err = n.publisher.Publish(ctx, n.cfg.RedisChannel, body)
	n.metrics.RecordEventPublished(string(event.Type), err)
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, n.cfg.RedisChannel, err)
	}
	return nil
}
