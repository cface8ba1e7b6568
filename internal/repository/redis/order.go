package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/stylekart/storefront/internal/domain"
	"github.com/stylekart/storefront/internal/repository"
)

const orderKeyPrefix = "orders_"

// OrderRepository implements repository.OrderRepository using a Redis list per
// user. LPUSH keeps the most recent order at the head, so pagination reads in
// reverse chronological order without sorting.
type OrderRepository struct {
	client *redis.Client
}

// NewOrderRepository creates a new Redis-backed order repository.
func NewOrderRepository(client *redis.Client) *OrderRepository {
	return &OrderRepository{client: client}
}

// Append adds an order to the head of the user's history list.
func (r *OrderRepository) Append(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	if err := r.client.LPush(ctx, orderKeyPrefix+order.UserID, data).Err(); err != nil {
		return fmt.Errorf("redis lpush order: %w", err)
	}

	return nil
}

// ListByUser returns one page of the user's orders, most recent first, and
// the total order count.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]*domain.Order, int, error) {
	key := orderKeyPrefix + userID

	total, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis llen orders: %w", err)
	}

	start := int64((page - 1) * perPage)
	stop := start + int64(perPage) - 1

	rows, err := r.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis lrange orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		var order domain.Order
		if err := json.Unmarshal([]byte(row), &order); err != nil {
			return nil, 0, fmt.Errorf("%w: unmarshal order for user %s: %v", repository.ErrMalformedData, userID, err)
		}
		orders = append(orders, &order)
	}

	return orders, int(total), nil
}
