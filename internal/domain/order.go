package domain

import "time"

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ShippingInfo is the delivery address and contact captured at checkout.
type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

// OrderItem is a cart entry frozen into an order, with the price normalized
// at checkout time.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url,omitempty"`
	Size      Size    `json:"size"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Order is an immutable snapshot of a checked-out cart.
type Order struct {
	ID       string       `json:"id"`
	UserID   string       `json:"user_id"`
	Items    []OrderItem  `json:"items"`
	Shipping ShippingInfo `json:"shipping"`
	SubTotal float64      `json:"sub_total"`
	Total    float64      `json:"total"`
	Status   OrderStatus  `json:"status"`
	PlacedAt time.Time    `json:"placed_at"`
}

// ItemCount returns the sum of quantities across all order items.
func (o *Order) ItemCount() int {
	var count int
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
