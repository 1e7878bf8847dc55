package http

import (
	jwtinfra "github.com/go-fest-api/internal/infrastructure/jwt"
	"github.com/go-fest-api/internal/infrastructure/postgres"
	redisinfra "github.com/go-fest-api/internal/infrastructure/redis"
	"github.com/go-fest-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *postgres.UserRepo
	EventRepo    *postgres.EventRepo
	CartRepo     *postgres.CartRepo
	OTPStore     *redisinfra.OTPStore
	PendingStore *redisinfra.PendingStore
	Mailer       smtp.Mailer
	JWTProvider  *jwtinfra.Provider
}
