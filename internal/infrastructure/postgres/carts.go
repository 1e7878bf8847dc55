package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-fest-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepo struct {
	pool *pgxpool.Pool
}

func NewCartRepo(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

// GetByUser returns the user's cart with its event memberships.
func (r *CartRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	err := r.pool.QueryRow(ctx,
		`SELECT c.cart_id, c.user_id, u.mkid, c.added_at, c.updated_at
		 FROM carts c JOIN users u ON u.user_id = c.user_id
		 WHERE c.user_id = $1`, userID,
	).Scan(&c.CartID, &c.UserID, &c.MKID, &c.AddedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cart: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT e.event_id, e.event_name, e.description, e.type, e.division, e.category,
			e.start_time, e.end_time, e.price, e.participation_limit
		 FROM events e JOIN cart_events ce ON ce.event_id = e.event_id
		 WHERE ce.cart_id = $1
		 ORDER BY e.event_id`, c.CartID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		c.Events = append(c.Events, *e)
	}
	return &c, rows.Err()
}
