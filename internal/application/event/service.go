// Package event exposes the festival catalog and per-user carts.
package event

import (
	"context"

	"github.com/go-fest-api/internal/domain"
)

type Service interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	Cart(ctx context.Context, userID string) (*domain.Cart, error)
}

type eventStore interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, eventID string) (*domain.Event, error)
}

type cartStore interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
}

type service struct {
	events eventStore
	carts  cartStore
}

func NewService(events eventStore, carts cartStore) Service {
	return &service{events: events, carts: carts}
}

func (s *service) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

func (s *service) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.events.Get(ctx, eventID)
}

func (s *service) Cart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.GetByUser(ctx, userID)
}
