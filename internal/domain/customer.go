package domain

import "time"

// Customer owns zero or more orders; the order holds the foreign reference.
// Birthdate is kept as an ISO date string ("2006-01-02") or empty.
type Customer struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Birthdate      string     `json:"birthdate,omitempty"`
	Address        string     `json:"address,omitempty"`
	AddressLineTwo string     `json:"address_line_two,omitempty"`
	Neighborhood   string     `json:"neighborhood,omitempty"`
	ZipCode        string     `json:"zip_code,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`
}
