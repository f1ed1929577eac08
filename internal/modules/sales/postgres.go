package sales

import (
	"context"
	"database/sql"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a sale history repository backed by postgres.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, sale *Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, cashier_id, subtotal, tax, total, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		sale.ID, sale.CashierID, sale.Subtotal, sale.Tax, sale.Total, sale.CreatedAt)
	if err != nil {
		return err
	}

	for i, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, position, product_id, product_name, quantity, price)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			sale.ID, i, item.ProductID, item.ProductName, item.Quantity, item.Price)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) List(ctx context.Context) ([]*Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.cashier_id, s.subtotal, s.tax, s.total, s.created_at,
		       i.product_id, i.product_name, i.quantity, i.price
		FROM sales s
		JOIN sale_items i ON i.sale_id = s.id
		ORDER BY s.created_at DESC, s.id, i.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Sale
	var current *Sale
	for rows.Next() {
		s := Sale{}
		var item SaleItem
		err := rows.Scan(&s.ID, &s.CashierID, &s.Subtotal, &s.Tax, &s.Total, &s.CreatedAt,
			&item.ProductID, &item.ProductName, &item.Quantity, &item.Price)
		if err != nil {
			return nil, err
		}
		if current == nil || current.ID != s.ID {
			cp := s
			current = &cp
			out = append(out, current)
		}
		current.Items = append(current.Items, item)
	}
	return out, rows.Err()
}
