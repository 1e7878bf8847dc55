package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-fest-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const pendingKeyPrefix = "reg_data_"

// PendingStore caches not-yet-persisted registration payloads, keyed by
// email, with the same TTL as their paired one-time code.
type PendingStore struct {
	rdb *redis.Client
}

func NewPendingStore(rdb *redis.Client) *PendingStore {
	return &PendingStore{rdb: rdb}
}

func (s *PendingStore) Put(ctx context.Context, email string, p *domain.PendingRegistration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, pendingKeyPrefix+email, data, keyTTL).Err(); err != nil {
		return fmt.Errorf("%w: store registration data: %v", domain.ErrDependency, err)
	}
	return nil
}

func (s *PendingStore) Get(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	data, err := s.rdb.Get(ctx, pendingKeyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("registration data not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read registration data: %v", domain.ErrDependency, err)
	}
	var p domain.PendingRegistration
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete purges the payload. Idempotent.
func (s *PendingStore) Delete(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, pendingKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("%w: delete registration data: %v", domain.ErrDependency, err)
	}
	return nil
}
