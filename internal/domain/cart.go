package domain

import (
	"strings"
	"time"
)

// Size is a garment size on a cart entry.
type Size string

const (
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// DefaultSize is used when a product is added to the cart without an explicit size.
const DefaultSize = SizeM

// ParseSize maps a raw size string onto the known enumeration, falling back to
// DefaultSize for empty or unknown values.
func ParseSize(raw string) Size {
	s := Size(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return s
	default:
		return DefaultSize
	}
}

// CartEntry is one line item in a cart. EntryID is the stable key for removal
// and quantity updates: the same product can appear under several sizes, each
// as its own entry, so ProductID alone does not identify a line.
type CartEntry struct {
	EntryID   string `json:"entry_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
	Size      Size   `json:"size"`
	Quantity  int    `json:"quantity"`

	// UnitPrice is the raw catalog price string captured when the entry was
	// added. A later catalog price change does not alter entries already in
	// the cart.
	UnitPrice string `json:"unit_price"`
}

// Total returns the normalized unit price times the quantity.
func (e CartEntry) Total() float64 {
	return NormalizePrice(e.UnitPrice) * float64(e.Quantity)
}

// Cart is the ordered sequence of entries for exactly one user.
// Invariant: at most one entry per distinct (ProductID, Size) pair.
type Cart struct {
	UserID    string      `json:"user_id"`
	Entries   []CartEntry `json:"entries"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewCart creates an empty cart for the given user.
func NewCart(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		Entries:   []CartEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Total sums the entry totals. Derived on every call, never cached, so it is
// always consistent with the latest mutation.
func (c *Cart) Total() float64 {
	var total float64
	for _, e := range c.Entries {
		total += e.Total()
	}
	return total
}

// SubTotal currently equals Total. It is a separate accessor so discount and
// shipping arithmetic can hook in without changing callers.
func (c *Cart) SubTotal() float64 {
	return c.Total()
}

// ItemCount returns the sum of quantities across all entries.
func (c *Cart) ItemCount() int {
	var count int
	for _, e := range c.Entries {
		count += e.Quantity
	}
	return count
}

// FindEntry returns the index of the entry matching the given product and
// size, or -1 if no such entry exists.
func (c *Cart) FindEntry(productID string, size Size) int {
	for i := range c.Entries {
		if c.Entries[i].ProductID == productID && c.Entries[i].Size == size {
			return i
		}
	}
	return -1
}

// FindByEntryID returns the index of the entry with the given entry ID, or -1
// if no such entry exists.
func (c *Cart) FindByEntryID(entryID string) int {
	for i := range c.Entries {
		if c.Entries[i].EntryID == entryID {
			return i
		}
	}
	return -1
}

// Contains reports whether an entry exists for the given product and size.
func (c *Cart) Contains(productID string, size Size) bool {
	return c.FindEntry(productID, size) >= 0
}
