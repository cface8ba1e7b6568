package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/stylekart/storefront/pkg/errors"

	"github.com/stylekart/storefront/internal/domain"
	"github.com/stylekart/storefront/internal/repository"
)

const wishlistKeyPrefix = "wishlist_"

// WishlistRepository implements repository.WishlistRepository using Redis.
type WishlistRepository struct {
	client *redis.Client
}

// NewWishlistRepository creates a new Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client) *WishlistRepository {
	return &WishlistRepository{client: client}
}

// Get retrieves a wishlist snapshot by user ID.
func (r *WishlistRepository) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	data, err := r.client.Get(ctx, wishlistKeyPrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("wishlist", userID)
		}
		return nil, fmt.Errorf("redis get wishlist: %w", err)
	}

	var list domain.Wishlist
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: unmarshal wishlist for user %s: %v", repository.ErrMalformedData, userID, err)
	}

	return &list, nil
}

// Save writes the full wishlist snapshot to the user's slot.
func (r *WishlistRepository) Save(ctx context.Context, list *domain.Wishlist) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	if err := r.client.Set(ctx, wishlistKeyPrefix+list.UserID, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set wishlist: %w", err)
	}

	return nil
}

// Delete removes the user's wishlist slot.
func (r *WishlistRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, wishlistKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}
	return nil
}
