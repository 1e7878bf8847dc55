package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-fest-api/internal/application/auth"
	"github.com/go-fest-api/internal/application/event"
	"github.com/go-fest-api/internal/application/passwordreset"
	"github.com/go-fest-api/internal/application/registration"
	"github.com/go-fest-api/internal/config"
	"github.com/go-fest-api/internal/transport/http/handler"
	appmiddleware "github.com/go-fest-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	registrationSvc := registration.NewService(registration.ServiceDeps{
		Codes:   deps.OTPStore,
		Pending: deps.PendingStore,
		Writer:  deps.UserRepo,
		Mailer:  deps.Mailer,
	})
	resetSvc := passwordreset.NewService(passwordreset.ServiceDeps{
		Codes:  deps.OTPStore,
		Users:  deps.UserRepo,
		Mailer: deps.Mailer,
	})
	authSvc := auth.NewService(deps.UserRepo, deps.JWTProvider)
	eventSvc := event.NewService(deps.EventRepo, deps.CartRepo)

	healthH := handler.NewHealthHandler()
	registrationH := handler.NewRegistrationHandler(registrationSvc)
	resetH := handler.NewPasswordResetHandler(resetSvc)
	sessionH := handler.NewSessionHandler(authSvc)
	eventH := handler.NewEventHandler(eventSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/register", registrationH.Register)
		r.With(sensitiveRL.Limit).Post("/register/verify-otp", registrationH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/forgot-password", resetH.ForgotPassword)
		r.With(sensitiveRL.Limit).Post("/reset-password", resetH.ResetPassword)
		r.With(sensitiveRL.Limit).Post("/login", sessionH.Login)
		r.Get("/events", eventH.List)
		r.Get("/events/{id}", eventH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/cart", eventH.Cart)
		})
	})

	return r
}
