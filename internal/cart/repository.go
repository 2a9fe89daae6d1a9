package cart

import (
	"context"
	"database/sql"
)

type Repository interface {
	// ClearCart empties the user's cart. Called once per confirmed
	// initiation, after the gateway accepts the payment.
	ClearCart(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ClearCart(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts WHERE user_id = $1
	`, userID)
	return err
}
