// Package checkout turns a cart into a durable order. Payment is not
// integrated; placing an order is the terminal step and clears the cart.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/stylekart/storefront/pkg/errors"

	"github.com/stylekart/storefront/internal/domain"
	"github.com/stylekart/storefront/internal/event"
	"github.com/stylekart/storefront/internal/repository"
	"github.com/stylekart/storefront/internal/session"
)

// ShippingInput carries the delivery details submitted at checkout.
type ShippingInput struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=7,max=20"`
	Address   string `json:"address" validate:"required,min=1,max=500"`
	City      string `json:"city" validate:"required,min=1,max=100"`
	State     string `json:"state" validate:"required,min=1,max=100"`
	ZipCode   string `json:"zip_code" validate:"required,min=3,max=12"`
}

// Service places orders from cart sessions.
type Service struct {
	orders   repository.OrderRepository
	carts    *session.Registry
	producer *event.Producer
	logger   *slog.Logger
}

// NewService creates a new checkout service.
func NewService(orders repository.OrderRepository, carts *session.Registry, producer *event.Producer, logger *slog.Logger) *Service {
	return &Service{
		orders:   orders,
		carts:    carts,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrder freezes the user's cart into an order, appends it to the order
// log, and clears the cart. Entry prices are normalized to numbers at this
// point; until here the cart carries them as raw strings.
func (s *Service) PlaceOrder(ctx context.Context, userID string, shipping ShippingInput) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("please login to checkout")
	}

	sess := s.carts.ForUser(ctx, userID)
	cart := sess.Cart()
	if len(cart.Entries) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	items := make([]domain.OrderItem, len(cart.Entries))
	for i, e := range cart.Entries {
		unit := domain.NormalizePrice(e.UnitPrice)
		items[i] = domain.OrderItem{
			ProductID: e.ProductID,
			Name:      e.Name,
			ImageURL:  e.ImageURL,
			Size:      e.Size,
			Quantity:  e.Quantity,
			UnitPrice: unit,
			Total:     unit * float64(e.Quantity),
		}
	}

	total := cart.Total()
	order := &domain.Order{
		ID:     uuid.New().String(),
		UserID: userID,
		Items:  items,
		Shipping: domain.ShippingInfo{
			FirstName: shipping.FirstName,
			LastName:  shipping.LastName,
			Email:     shipping.Email,
			Phone:     shipping.Phone,
			Address:   shipping.Address,
			City:      shipping.City,
			State:     shipping.State,
			ZipCode:   shipping.ZipCode,
		},
		SubTotal: cart.SubTotal(),
		Total:    total,
		Status:   domain.OrderStatusPlaced,
		PlacedAt: time.Now().UTC(),
	}

	if err := s.orders.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("append order: %w", err)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := sess.Clear(ctx); err != nil {
		// The order is already durable; a failed cart clear must not
		// unwind it.
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("order_id", order.ID),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int("item_count", order.ItemCount()),
		slog.Float64("total", total),
	)

	return order, nil
}

// ListOrders returns the user's orders, most recent first.
func (s *Service) ListOrders(ctx context.Context, userID string, page, perPage int) ([]*domain.Order, int, error) {
	if userID == "" {
		return nil, 0, apperrors.Unauthorized("please login to view your orders")
	}
	return s.orders.ListByUser(ctx, userID, page, perPage)
}
