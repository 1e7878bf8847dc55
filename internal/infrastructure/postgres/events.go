package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-fest-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

const eventColumns = `event_id, event_name, description, type, division, category,
	start_time, end_time, price, participation_limit`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.EventID, &e.EventName, &e.Description, &e.Type, &e.Division, &e.Category,
		&e.StartTime, &e.EndTime, &e.Price, &e.ParticipationLimit,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("event: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepo) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY event_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *EventRepo) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE event_id = $1`, eventID)
	return scanEvent(row)
}
