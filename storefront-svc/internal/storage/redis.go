package storage

import (
	"context"
	"time"

	"github.com/Ram071/market/storefront-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatusMirror writes each order's latest status into a hash for
// external tracking dashboards. The session never reads it back.
type RedisStatusMirror struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStatusMirror(client *redis.Client, ttl time.Duration) *RedisStatusMirror {
	return &RedisStatusMirror{Client: client, TTL: ttl}
}

func (m *RedisStatusMirror) OrderKey(orderID string) string {
	return "order:" + orderID
}

func (m *RedisStatusMirror) MirrorOrder(ctx context.Context, order domain.Order) error {
	key := m.OrderKey(order.ID)
	pipe := m.Client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"status":          string(order.Status),
		"restaurant_name": order.RestaurantName,
		"total":           order.Total.StringFixed(2),
		"placed_at":       order.Date.Unix(),
		"last_updated":    time.Now().Unix(),
	})
	if m.TTL > 0 {
		pipe.Expire(ctx, key, m.TTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}
