// Package registration implements the OTP-verified registration
// pipeline: Submit validates the form, caches it in the ephemeral store
// and mails a one-time code; Confirm verifies the code and commits the
// cached payload as a durable account with its default enrollment.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-fest-api/internal/domain"
	"github.com/go-fest-api/internal/pkg/otp"
	"github.com/go-fest-api/internal/pkg/validate"
)

const purposeRegistration = "registration"

const otpMailSubject = "Email Verification OTP for Mindkraft 25"

type Service interface {
	Submit(ctx context.Context, req domain.RegistrationRequest) (string, error)
	Confirm(ctx context.Context, email, code string) (*domain.User, error)
}

type codeStore interface {
	Store(ctx context.Context, email, purpose, code string) error
	Verify(ctx context.Context, email, purpose, candidate string) (bool, error)
	Delete(ctx context.Context, email, purpose string) error
}

type pendingStore interface {
	Put(ctx context.Context, email string, p *domain.PendingRegistration) error
	Get(ctx context.Context, email string) (*domain.PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

type accountWriter interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateWithEnrollment(ctx context.Context, p *domain.PendingRegistration) (*domain.User, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	codes   codeStore
	pending pendingStore
	writer  accountWriter
	mailer  mailer
}

type ServiceDeps struct {
	Codes   codeStore
	Pending pendingStore
	Writer  accountWriter
	Mailer  mailer
}

func NewService(deps ServiceDeps) Service {
	return &service{
		codes:   deps.Codes,
		pending: deps.Pending,
		writer:  deps.Writer,
		mailer:  deps.Mailer,
	}
}

// Submit validates the registration form, caches the payload and a
// hashed one-time code under the submitter's email, and mails the code.
// Resubmitting before confirmation overwrites both records, so only the
// newest code verifies.
func (s *service) Submit(ctx context.Context, req domain.RegistrationRequest) (string, error) {
	if err := validate.Struct(&req); err != nil {
		return "", fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	dob, err := domain.ParseDate(req.DateOfBirth)
	if err != nil {
		return "", fmt.Errorf("date_of_birth must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	if dob.After(time.Now()) {
		return "", fmt.Errorf("date_of_birth cannot be in the future: %w", domain.ErrBadRequest)
	}

	if _, err := s.writer.GetByEmail(ctx, req.Email); err == nil {
		return "", fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	pending := &domain.PendingRegistration{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RegisterNo:   req.RegisterNo,
		MobileNo:     req.MobileNo,
		DateOfBirth:  dob,
		Intercollege: req.Intercollege,
		IsFaculty:    req.IsFaculty,
	}
	if !req.IsFaculty {
		pending.Student = req.Student
	}

	code, err := otp.Generate()
	if err != nil {
		return "", err
	}

	// Payload first, code second: a stored code must never be
	// confirmable without its payload behind it.
	if err := s.pending.Put(ctx, req.Email, pending); err != nil {
		return "", err
	}
	if err := s.codes.Store(ctx, req.Email, purposeRegistration, code); err != nil {
		return "", err
	}

	body := fmt.Sprintf("Your OTP for email verification is: %s\nThis OTP will expire in 10 minutes.", code)
	if err := s.mailer.SendEmail(req.Email, otpMailSubject, body); err != nil {
		// The cached code stays valid until its TTL; the caller may retry
		// submission, which overwrites both records.
		slog.Error("failed to send registration OTP", "email", req.Email, "err", err)
		return "", fmt.Errorf("could not send OTP email: %w", domain.ErrDependency)
	}

	slog.Info("registration initiated", "email", req.Email)
	return req.Email, nil
}

// Confirm verifies the code, retrieves the cached payload and hands it
// to the enrollment writer as one atomic unit. Ephemeral state is only
// purged after the durable commit succeeds; a failed commit leaves it
// intact so the same confirmed code can be retried until TTL expiry.
// Replaying a confirm after success finds no payload and reports the
// registration data as expired rather than creating a second account.
func (s *service) Confirm(ctx context.Context, email, code string) (*domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}

	ok, err := s.codes.Verify(ctx, email, purposeRegistration, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Warn("invalid registration OTP", "email", email)
		return nil, fmt.Errorf("invalid OTP: %w", domain.ErrBadRequest)
	}

	pending, err := s.pending.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("registration data expired: %w", domain.ErrBadRequest)
		}
		return nil, err
	}

	u, err := s.writer.CreateWithEnrollment(ctx, pending)
	if err != nil {
		slog.Error("registration commit failed", "email", email, "err", err)
		return nil, err
	}

	if err := s.codes.Delete(ctx, email, purposeRegistration); err != nil {
		slog.Warn("failed to clear registration OTP", "email", email, "err", err)
	}
	if err := s.pending.Delete(ctx, email); err != nil {
		slog.Warn("failed to clear registration data", "email", email, "err", err)
	}

	slog.Info("registration successful", "email", email, "mkid", u.MKID)
	return u, nil
}
