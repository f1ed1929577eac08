package sales

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// LineItem is one product/quantity pair in a proposed sale.
type LineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// SaleItem is the immutable record of one line of a committed sale. Name and
// price are snapshots taken at commit time, so later catalog edits do not
// retroactively alter history.
type SaleItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
}

// Sale is a committed transaction. Sales are append-only and immutable.
type Sale struct {
	ID        uuid.UUID  `json:"id"`
	CashierID uuid.UUID  `json:"cashier_id"`
	Items     []SaleItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
}

var (
	// ErrProductNotFound is returned when a line item references an unknown
	// product. The whole sale is rejected.
	ErrProductNotFound = errors.New("sale references unknown product")
	// ErrEmptySale is returned when a sale has no line items.
	ErrEmptySale = errors.New("sale must contain at least one line item")
	// ErrInvalidQuantity is returned when a line item quantity is not positive.
	ErrInvalidQuantity = errors.New("line item quantity must be positive")
)
