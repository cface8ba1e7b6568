package catalog

import (
	"encoding/json"
	"strings"

	"github.com/stylekart/storefront/internal/domain"
)

// flexString decodes a JSON value that may be a string or a number into a
// string. The catalog store is hand-edited JSON, so numeric ids and prices
// show up in both forms.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// productRecord accepts every product shape the catalog store is known to
// hold.
type productRecord struct {
	ID        flexString `json:"id"`
	ProductID flexString `json:"product_id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Price     flexString `json:"price"`
	Image     string     `json:"image"`
	ImageURL  string     `json:"image_url"`
	Category  string     `json:"category"`
}

// canonical maps the record onto the one product shape the rest of the
// service sees.
func (r productRecord) canonical() domain.Product {
	id := string(r.ID)
	if id == "" {
		id = string(r.ProductID)
	}
	name := r.Name
	if name == "" {
		name = r.Title
	}
	image := r.ImageURL
	if image == "" {
		image = r.Image
	}
	return domain.Product{
		ID:       id,
		Name:     name,
		Price:    strings.TrimSpace(string(r.Price)),
		ImageURL: image,
		Category: r.Category,
	}
}

// userRecord accepts every user shape the catalog store is known to hold.
type userRecord struct {
	ID        flexString `json:"id"`
	FirstName string     `json:"firstName"`
	Fname     string     `json:"Fname"`
	LastName  string     `json:"lastName"`
	Lname     string     `json:"Lname"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Role      string     `json:"role"`
}

func (r userRecord) canonical() domain.User {
	first := r.FirstName
	if first == "" {
		first = r.Fname
	}
	last := r.LastName
	if last == "" {
		last = r.Lname
	}
	return domain.User{
		ID:           string(r.ID),
		FirstName:    first,
		LastName:     last,
		Email:        r.Email,
		PasswordHash: r.Password,
		Role:         r.Role,
	}
}
