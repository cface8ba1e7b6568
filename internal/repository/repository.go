package repository

import (
	"context"
	"errors"

	"github.com/stylekart/storefront/internal/domain"
)

// ErrMalformedData signals that a durable slot holds bytes that do not decode
// into the expected shape. Callers recover by falling back to an empty value;
// corruption must never take a session down.
var ErrMalformedData = errors.New("malformed persisted data")

// CartRepository persists per-user cart snapshots in a durable key-value slot.
type CartRepository interface {
	// Get retrieves the cart stored for the user. Returns an error matching
	// apperrors.ErrNotFound when no slot exists and one matching
	// ErrMalformedData when the slot cannot be decoded.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save writes the full cart snapshot to the user's slot, overwriting any
	// previous contents.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the user's slot entirely.
	Delete(ctx context.Context, userID string) error
}

// WishlistRepository persists per-user wishlist snapshots.
type WishlistRepository interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Save(ctx context.Context, list *domain.Wishlist) error
	Delete(ctx context.Context, userID string) error
}

// OrderRepository persists the per-user order history.
type OrderRepository interface {
	// Append adds an order to the end of the user's history.
	Append(ctx context.Context, order *domain.Order) error

	// ListByUser returns the user's orders, most recent first, plus the total
	// count for pagination.
	ListByUser(ctx context.Context, userID string, page, perPage int) ([]*domain.Order, int, error)
}
