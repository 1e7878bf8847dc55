package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-fest-api/internal/application/passwordreset"
)

// forgotPasswordMessage is returned for every forgot-password request,
// known email or not, so the endpoint cannot be probed for accounts.
const forgotPasswordMessage = "If a user with this email exists, they will receive a password reset OTP."

// PasswordResetHandler handles the credential-reset endpoints.
type PasswordResetHandler struct {
	svc passwordreset.Service
}

func NewPasswordResetHandler(svc passwordreset.Service) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc}
}

func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	if err := h.svc.Request(r.Context(), req.Email); err != nil {
		// Infrastructure failures are logged but the response stays
		// indistinguishable from the success case.
		slog.Error("password reset request failed", "err", err)
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: forgotPasswordMessage})
}

func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordreset.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Confirm(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password successfully reset"})
}
