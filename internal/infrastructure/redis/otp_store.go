package redisinfra

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-fest-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// OTPStore persists salted one-way hashes of one-time codes under
// "{purpose}_{email}" keys. At most one live code exists per
// (purpose, email): a new Store overwrites the previous one.
type OTPStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func (s *OTPStore) key(email, purpose string) string {
	return purpose + "_" + email
}

// Store hashes code and writes it with the fixed TTL. The plaintext code
// never reaches the store.
func (s *OTPStore) Store(ctx context.Context, email, purpose, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(email, purpose), hash, keyTTL).Err(); err != nil {
		return fmt.Errorf("%w: store otp: %v", domain.ErrDependency, err)
	}
	return nil
}

// Verify compares candidate against the stored hash. A missing or
// expired key is a verification failure, not an error. Verify never
// deletes the code; single-use semantics are enforced by the pipeline's
// explicit Delete after its durable commit, so a verify that succeeds
// but whose follow-up fails does not burn the code.
func (s *OTPStore) Verify(ctx context.Context, email, purpose, candidate string) (bool, error) {
	hash, err := s.rdb.Get(ctx, s.key(email, purpose)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read otp: %v", domain.ErrDependency, err)
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(candidate)) == nil, nil
}

// Delete removes the code. Deleting an absent key is a no-op.
func (s *OTPStore) Delete(ctx context.Context, email, purpose string) error {
	if err := s.rdb.Del(ctx, s.key(email, purpose)).Err(); err != nil {
		return fmt.Errorf("%w: delete otp: %v", domain.ErrDependency, err)
	}
	return nil
}
