// Package session holds the per-user shopping cart state for the storefront.
//
// A CartSession is the single owner of one user's in-memory cart. It follows a
// two-state machine: Unauthenticated (cart always empty, mutations rejected)
// and Authenticated (cart mirrors the user's durable slot). Every mutation is
// applied in memory and then persisted as a full snapshot, so the durable slot
// always reflects the latest state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/stylekart/storefront/pkg/errors"

	"github.com/stylekart/storefront/internal/domain"
	"github.com/stylekart/storefront/internal/event"
	"github.com/stylekart/storefront/internal/repository"
)

// CartSession owns the in-memory cart for one active user.
type CartSession struct {
	mu       sync.Mutex
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger

	userID string // empty while unauthenticated
	cart   *domain.Cart
}

// New creates a session in the Unauthenticated state.
func New(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartSession {
	return &CartSession{
		repo:     repo,
		producer: producer,
		logger:   logger,
		cart:     domain.NewCart(""),
	}
}

// Authenticated reports whether a user is currently bound to the session.
func (s *CartSession) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID != ""
}

// UserID returns the bound user's identifier, or "" while unauthenticated.
func (s *CartSession) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// SwitchUser moves the session to the given user's identity. The previous
// in-memory cart is discarded without touching its durable slot. An empty
// userID transitions to Unauthenticated; otherwise the new user's persisted
// cart is loaded, falling back to an empty cart when the slot is missing or
// malformed.
func (s *CartSession) SwitchUser(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == s.userID {
		return
	}

	s.userID = userID
	if userID == "" {
		s.cart = domain.NewCart("")
		return
	}
	s.cart = s.load(ctx, userID)
}

// load reads the user's durable slot. Missing and malformed slots both
// degrade to an empty cart; corruption is logged, never surfaced.
func (s *CartSession) load(ctx context.Context, userID string) *domain.Cart {
	cart, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		return cart
	case errors.Is(err, apperrors.ErrNotFound):
		return domain.NewCart(userID)
	case errors.Is(err, repository.ErrMalformedData):
		s.logger.WarnContext(ctx, "discarding malformed cart slot",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return domain.NewCart(userID)
	default:
		s.logger.ErrorContext(ctx, "failed to load cart, starting empty",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return domain.NewCart(userID)
	}
}

// AddToCart adds a product to the cart. When an entry for the same
// (product, size) pair already exists its quantity is incremented; otherwise a
// new entry snapshots the product's name, image, and raw price at this moment.
// A merge never refreshes the stored price: items keep the price they were
// added at.
func (s *CartSession) AddToCart(ctx context.Context, product domain.Product, size domain.Size, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		return apperrors.Unauthorized("please login to add items to cart")
	}
	if product.ID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if quantity <= 0 {
		return apperrors.InvalidInput("quantity must be greater than 0")
	}
	if size == "" {
		size = domain.DefaultSize
	}

	if i := s.cart.FindEntry(product.ID, size); i >= 0 {
		s.cart.Entries[i].Quantity += quantity
	} else {
		s.cart.Entries = append(s.cart.Entries, domain.CartEntry{
			EntryID:   uuid.New().String(),
			ProductID: product.ID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			Size:      size,
			Quantity:  quantity,
			UnitPrice: product.Price,
		})
	}

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.publishUpdated(ctx)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", s.userID),
		slog.String("product_id", product.ID),
		slog.String("size", string(size)),
		slog.Int("quantity", quantity),
	)

	return nil
}

// RemoveFromCart removes the entry with the given entry ID. Removing an
// absent entry is a no-op, not an error.
func (s *CartSession) RemoveFromCart(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		return apperrors.Unauthorized("please login to modify your cart")
	}

	i := s.cart.FindByEntryID(entryID)
	if i < 0 {
		return nil
	}
	s.cart.Entries = append(s.cart.Entries[:i], s.cart.Entries[i+1:]...)

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.publishUpdated(ctx)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("user_id", s.userID),
		slog.String("entry_id", entryID),
	)

	return nil
}

// UpdateQuantity sets the quantity of the entry with the given entry ID.
// A quantity of zero or less removes the entry. Updating an absent entry is a
// no-op. No upper bound is enforced.
func (s *CartSession) UpdateQuantity(ctx context.Context, entryID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		return apperrors.Unauthorized("please login to modify your cart")
	}

	i := s.cart.FindByEntryID(entryID)
	if i < 0 {
		return nil
	}

	if quantity <= 0 {
		s.cart.Entries = append(s.cart.Entries[:i], s.cart.Entries[i+1:]...)
	} else {
		s.cart.Entries[i].Quantity = quantity
	}

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.publishUpdated(ctx)

	s.logger.InfoContext(ctx, "cart entry quantity updated",
		slog.String("user_id", s.userID),
		slog.String("entry_id", entryID),
		slog.Int("quantity", quantity),
	)

	return nil
}

// Clear empties the cart. The durable slot is overwritten with the empty
// snapshot, not deleted, and the session stays bound to the same user.
func (s *CartSession) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" {
		return apperrors.Unauthorized("please login to modify your cart")
	}

	s.cart.Entries = []domain.CartEntry{}

	if err := s.persist(ctx); err != nil {
		return err
	}

	if err := s.producer.PublishCartCleared(ctx, s.userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("user_id", s.userID),
	)

	return nil
}

// Cart returns a snapshot copy of the current cart.
func (s *CartSession) Cart() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// ItemCount returns the total quantity across all entries.
func (s *CartSession) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Total returns the cart total, recomputed from the current entries.
func (s *CartSession) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// SubTotal returns the cart subtotal. Currently identical to Total.
func (s *CartSession) SubTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.SubTotal()
}

// IsInCart reports whether an entry exists for the given product and size.
func (s *CartSession) IsInCart(productID string, size domain.Size) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size == "" {
		size = domain.DefaultSize
	}
	return s.cart.Contains(productID, size)
}

// persist writes the full cart snapshot to the durable slot. Callers hold the
// mutex.
func (s *CartSession) persist(ctx context.Context) error {
	s.cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.cart); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// publishUpdated emits a cart.updated event. Publish failures are logged and
// never fail the mutation. Callers hold the mutex.
func (s *CartSession) publishUpdated(ctx context.Context) {
	if err := s.producer.PublishCartUpdated(ctx, s.snapshot()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()),
		)
	}
}

// snapshot copies the cart so callers cannot mutate session state through the
// returned value. Callers hold the mutex.
func (s *CartSession) snapshot() *domain.Cart {
	cp := *s.cart
	cp.Entries = make([]domain.CartEntry, len(s.cart.Entries))
	copy(cp.Entries, s.cart.Entries)
	return &cp
}
