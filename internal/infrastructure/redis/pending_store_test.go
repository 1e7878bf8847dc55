package redisinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-fest-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePending() *domain.PendingRegistration {
	dob, _ := domain.ParseDate("2000-01-01")
	return &domain.PendingRegistration{
		Email:       "a@x.com",
		Password:    "longpass1",
		FirstName:   "A",
		LastName:    "B",
		RegisterNo:  "URK21CS1001",
		MobileNo:    "9876543210",
		DateOfBirth: dob,
		Student: &domain.StudentDetails{
			CollegeName: "Karunya",
			Branch:      "CSE",
			Dept:        "Computer Science",
			YearOfStudy: 3,
		},
	}
}

func TestPendingStore_RoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewPendingStore(rdb)
	ctx := context.Background()

	in := samplePending()
	require.NoError(t, s.Put(ctx, in.Email, in))

	out, err := s.Get(ctx, in.Email)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	// The date must round-trip to the exact same value through the
	// canonical string encoding.
	assert.Equal(t, "2000-01-01", out.DateOfBirth.String())
	assert.True(t, in.DateOfBirth.Equal(out.DateOfBirth.Time))
}

func TestPendingStore_GetMissing(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewPendingStore(rdb)

	_, err := s.Get(context.Background(), "nobody@x.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPendingStore_ExpiresAfterTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewPendingStore(rdb)
	ctx := context.Background()

	in := samplePending()
	require.NoError(t, s.Put(ctx, in.Email, in))
	mr.FastForward(601 * time.Second)

	_, err := s.Get(ctx, in.Email)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPendingStore_PutOverwrites(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewPendingStore(rdb)
	ctx := context.Background()

	first := samplePending()
	require.NoError(t, s.Put(ctx, first.Email, first))

	second := samplePending()
	second.FirstName = "Updated"
	require.NoError(t, s.Put(ctx, second.Email, second))

	out, err := s.Get(ctx, first.Email)
	require.NoError(t, err)
	assert.Equal(t, "Updated", out.FirstName)
}

func TestPendingStore_DeleteIsIdempotent(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewPendingStore(rdb)
	ctx := context.Background()

	in := samplePending()
	require.NoError(t, s.Put(ctx, in.Email, in))
	require.NoError(t, s.Delete(ctx, in.Email))
	require.NoError(t, s.Delete(ctx, in.Email))

	_, err := s.Get(ctx, in.Email)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
