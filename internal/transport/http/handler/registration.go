package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-fest-api/internal/application/registration"
	"github.com/go-fest-api/internal/domain"
)

// RegistrationHandler handles the two-step registration endpoints.
type RegistrationHandler struct {
	svc registration.Service
}

func NewRegistrationHandler(svc registration.Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// Register accepts the registration form and responds 202: the account
// does not exist yet, it is pending OTP confirmation.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, RegistrationEnvelope{
		Message: "OTP sent to your email. It will expire in 10 minutes.",
		Email:   email,
	})
}

// VerifyOTP confirms a pending registration and responds 201 with the
// committed account.
func (h *RegistrationHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.Confirm(r.Context(), req.Email, req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UserEnvelope{Message: "Registration successful", User: u})
}
