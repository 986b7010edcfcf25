package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/pkg/mykafka"
)

type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID string    `json:"productID"`
	Name      string    `json:"name,omitempty"`
	At        time.Time `json:"at"`
}

type OrderEvent struct {
	Type    string    `json:"type"`
	OrderID string    `json:"orderID"`
	UserID  string    `json:"userID,omitempty"`
	Total   string    `json:"total"`
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
}

// publish never fails the caller; a lost event is logged.
func publish(ctx context.Context, p mykafka.Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "key", key, "error", err)
	}
}
