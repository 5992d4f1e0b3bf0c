package domain

import "time"

// Product is a catalog entry. Price is the *current* unit price; order
// lines snapshot it at attach time, so changing it never touches existing
// orders.
type Product struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Price     Money      `json:"price"`
	PhotoURL  string     `json:"photo_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}
