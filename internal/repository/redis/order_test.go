package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylekart/storefront/internal/domain"
)

func sampleOrder(userID, orderID string) *domain.Order {
	return &domain.Order{
		ID:     orderID,
		UserID: userID,
		Items: []domain.OrderItem{
			{ProductID: "prod-1", Size: domain.SizeM, Quantity: 2, UnitPrice: 1999, Total: 3998},
		},
		SubTotal: 3998,
		Total:    3998,
		Status:   domain.OrderStatusPlaced,
		PlacedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestOrderRepository_AppendAndList(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewOrderRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sampleOrder("user-1", "ord-1")))
	require.NoError(t, repo.Append(ctx, sampleOrder("user-1", "ord-2")))

	orders, total, err := repo.ListByUser(ctx, "user-1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, orders, 2)
	// Most recent first.
	assert.Equal(t, "ord-2", orders[0].ID)
	assert.Equal(t, "ord-1", orders[1].ID)
}

func TestOrderRepository_List_Empty(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewOrderRepository(client)

	orders, total, err := repo.ListByUser(context.Background(), "nobody", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestOrderRepository_List_Pagination(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewOrderRepository(client)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Append(ctx, sampleOrder("user-1", fmt.Sprintf("ord-%d", i))))
	}

	page1, total, err := repo.ListByUser(ctx, "user-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "ord-5", page1[0].ID)

	page3, _, err := repo.ListByUser(ctx, "user-1", 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "ord-1", page3[0].ID)
}

func TestOrderRepository_IsolatedPerUser(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewOrderRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sampleOrder("user-a", "ord-a")))
	require.NoError(t, repo.Append(ctx, sampleOrder("user-b", "ord-b")))

	orders, total, err := repo.ListByUser(ctx, "user-a", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-a", orders[0].ID)
}
