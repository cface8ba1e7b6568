// Package wishlist implements the saved-for-later product list. Unlike the
// cart, the wishlist has no session state machine; it is keyed directly by the
// authenticated user and read from its durable slot on every call.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/stylekart/storefront/pkg/errors"

	"github.com/stylekart/storefront/internal/domain"
	"github.com/stylekart/storefront/internal/repository"
	"github.com/stylekart/storefront/internal/session"
)

// Service implements wishlist operations for authenticated users.
type Service struct {
	repo   repository.WishlistRepository
	carts  *session.Registry
	logger *slog.Logger
}

// NewService creates a new wishlist service.
func NewService(repo repository.WishlistRepository, carts *session.Registry, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		carts:  carts,
		logger: logger,
	}
}

// List returns the user's wishlist. Missing and malformed slots both degrade
// to an empty wishlist.
func (s *Service) List(ctx context.Context, userID string) (*domain.Wishlist, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("please login to view your wishlist")
	}
	return s.load(ctx, userID), nil
}

// Add saves a product to the wishlist, snapshotting its name, image, and raw
// price. Adding a product that is already saved is a no-op.
func (s *Service) Add(ctx context.Context, userID string, product domain.Product) (*domain.Wishlist, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("please login to save items to your wishlist")
	}
	if product.ID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	wl := s.load(ctx, userID)
	if wl.Contains(product.ID) {
		return wl, nil
	}

	wl.Items = append(wl.Items, domain.WishlistItem{
		ProductID: product.ID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		Price:     product.Price,
		AddedAt:   time.Now().UTC(),
	})

	if err := s.persist(ctx, wl); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to wishlist",
		slog.String("user_id", userID),
		slog.String("product_id", product.ID),
	)

	return wl, nil
}

// Remove deletes a product from the wishlist. Removing an absent product is a
// no-op.
func (s *Service) Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("please login to modify your wishlist")
	}

	wl := s.load(ctx, userID)
	i := wl.Find(productID)
	if i < 0 {
		return wl, nil
	}
	wl.Items = append(wl.Items[:i], wl.Items[i+1:]...)

	if err := s.persist(ctx, wl); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item removed from wishlist",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return wl, nil
}

// Clear empties the wishlist, overwriting the durable slot with the empty
// snapshot.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.Unauthorized("please login to modify your wishlist")
	}

	wl := domain.NewWishlist(userID)
	if err := s.persist(ctx, wl); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "wishlist cleared",
		slog.String("user_id", userID),
	)

	return nil
}

// MoveToCart adds a saved product to the user's cart and removes it from the
// wishlist. The cart entry reuses the price snapshotted when the product was
// saved. The wishlist is only updated once the cart add has succeeded.
func (s *Service) MoveToCart(ctx context.Context, userID, productID string, size domain.Size, quantity int) (*domain.Wishlist, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("please login to modify your wishlist")
	}

	wl := s.load(ctx, userID)
	i := wl.Find(productID)
	if i < 0 {
		return nil, apperrors.NotFound("wishlist item", productID)
	}
	item := wl.Items[i]

	if quantity <= 0 {
		quantity = 1
	}

	product := domain.Product{
		ID:       item.ProductID,
		Name:     item.Name,
		Price:    item.Price,
		ImageURL: item.ImageURL,
	}
	if err := s.carts.ForUser(ctx, userID).AddToCart(ctx, product, size, quantity); err != nil {
		return nil, err
	}

	wl.Items = append(wl.Items[:i], wl.Items[i+1:]...)
	if err := s.persist(ctx, wl); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "wishlist item moved to cart",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return wl, nil
}

// load reads the user's wishlist slot, degrading to an empty wishlist when it
// is missing or malformed.
func (s *Service) load(ctx context.Context, userID string) *domain.Wishlist {
	wl, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		return wl
	case errors.Is(err, apperrors.ErrNotFound):
		return domain.NewWishlist(userID)
	case errors.Is(err, repository.ErrMalformedData):
		s.logger.WarnContext(ctx, "discarding malformed wishlist slot",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return domain.NewWishlist(userID)
	default:
		s.logger.ErrorContext(ctx, "failed to load wishlist, starting empty",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return domain.NewWishlist(userID)
	}
}

func (s *Service) persist(ctx context.Context, wl *domain.Wishlist) error {
	wl.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, wl); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	return nil
}
