package domain

// User is a registered storefront account. The password is stored only as a
// bcrypt hash.
type User struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password,omitempty"`
	Role         string `json:"role,omitempty"`
}
