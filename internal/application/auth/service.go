// Package auth implements credential login for committed accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-fest-api/internal/domain"
	"github.com/go-fest-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the signed token and the account it belongs to.
type LoginResult struct {
	Bearer string
	User   *domain.User
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenSigner interface {
	Sign(u *domain.User) (string, error)
}

type service struct {
	users  userStore
	signer tokenSigner
}

func NewService(users userStore, signer tokenSigner) Service {
	return &service{users: users, signer: signer}
}

// Login checks the credential against the stored hash. Unknown email and
// wrong password produce the same error, so the response does not reveal
// which accounts exist.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "mkid", u.MKID)
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}

	bearer, err := s.signer.Sign(u)
	if err != nil {
		return nil, err
	}

	slog.Info("login", "mkid", u.MKID)
	return &LoginResult{Bearer: bearer, User: u}, nil
}
