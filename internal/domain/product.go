package domain

// Product is the canonical product shape inside the service. The catalog
// store's duck-typed JSON (id vs product_id, image vs image_url, numeric vs
// string ids) is normalized onto this type at the catalog boundary; nothing
// past that boundary sees the external shapes.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
	Category string `json:"category,omitempty"`
}
