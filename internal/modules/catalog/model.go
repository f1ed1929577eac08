package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is an item in the shop's catalog. Stock is never allowed to go
// negative; products are never deleted.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
