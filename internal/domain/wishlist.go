package domain

import "time"

// WishlistItem is a product saved for later, snapshotted like a cart entry so
// the wishlist stays renderable even if the catalog record changes.
type WishlistItem struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	Price     string    `json:"price"`
	AddedAt   time.Time `json:"added_at"`
}

// Wishlist is the per-user collection of saved products. At most one item per
// product ID.
type Wishlist struct {
	UserID    string         `json:"user_id"`
	Items     []WishlistItem `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewWishlist creates an empty wishlist for the given user.
func NewWishlist(userID string) *Wishlist {
	return &Wishlist{
		UserID:    userID,
		Items:     []WishlistItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Find returns the index of the item with the given product ID, or -1.
func (w *Wishlist) Find(productID string) int {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Contains reports whether the product is on the wishlist.
func (w *Wishlist) Contains(productID string) bool {
	return w.Find(productID) >= 0
}
