package sales

import "context"

// Repository defines data access for the append-only sale history.
// There is no update or delete; committed sales are immutable.
type Repository interface {
	Create(ctx context.Context, sale *Sale) error
	// List returns a snapshot of all sales, newest first.
	List(ctx context.Context) ([]*Sale, error)
}
