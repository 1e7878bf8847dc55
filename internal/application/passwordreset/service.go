// Package passwordreset implements the OTP-backed credential-reset
// pipeline. It shares the code store with registration under a separate
// purpose tag, so both flows can hold independent live codes for the
// same email.
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-fest-api/internal/domain"
	"github.com/go-fest-api/internal/pkg/otp"
	"github.com/go-fest-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

const purposeReset = "reset_password"

const resetMailSubject = "Password Reset OTP"

type ResetRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type Service interface {
	Request(ctx context.Context, email string) error
	Confirm(ctx context.Context, req ResetRequest) error
}

type codeStore interface {
	Store(ctx context.Context, email, purpose, code string) error
	Verify(ctx context.Context, email, purpose, candidate string) (bool, error)
	Delete(ctx context.Context, email, purpose string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	codes  codeStore
	users  userStore
	mailer mailer
}

type ServiceDeps struct {
	Codes  codeStore
	Users  userStore
	Mailer mailer
}

func NewService(deps ServiceDeps) Service {
	return &service{codes: deps.Codes, users: deps.Users, mailer: deps.Mailer}
}

// Request issues a reset code for the account behind email. An unknown
// email is not an error: the caller gets the same generic outcome either
// way, so this endpoint cannot be used to enumerate accounts.
func (s *service) Request(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	code, err := otp.Generate()
	if err != nil {
		return err
	}
	if err := s.codes.Store(ctx, u.Email, purposeReset, code); err != nil {
		return err
	}

	body := fmt.Sprintf("Your OTP for password reset is: %s\nThis OTP will expire in 10 minutes.", code)
	if err := s.mailer.SendEmail(u.Email, resetMailSubject, body); err != nil {
		slog.Error("failed to send reset OTP", "err", err)
		return fmt.Errorf("could not send OTP email: %w", domain.ErrDependency)
	}

	slog.Info("password reset OTP sent", "mkid", u.MKID)
	return nil
}

// Confirm verifies the code and durably replaces the account's hashed
// credential. Verification failure is reported generically and mutates
// nothing.
func (s *service) Confirm(ctx context.Context, req ResetRequest) error {
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	ok, err := s.codes.Verify(ctx, req.Email, purposeReset, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("invalid password reset OTP")
		return fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest)
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("user not found: %w", domain.ErrBadRequest)
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.UserID, string(hash)); err != nil {
		return err
	}

	if err := s.codes.Delete(ctx, req.Email, purposeReset); err != nil {
		slog.Warn("failed to clear reset OTP", "err", err)
	}

	slog.Info("password reset", "mkid", u.MKID)
	return nil
}
