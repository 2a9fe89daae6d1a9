package order

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetOrder(ctx context.Context, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status OrderStatus, note string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, billing_email, billing_first_name, billing_last_name, billing_phone,
		       total, status, created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID)

	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Email, &o.FirstName, &o.LastName, &o.Phone,
		&o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, name, quantity, subtotal
		FROM order_items WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Name, &it.Quantity, &it.Subtotal); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status OrderStatus, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	if note != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_notes (order_id, note) VALUES ($1, $2)
		`, orderID, note)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
