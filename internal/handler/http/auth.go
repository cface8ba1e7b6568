package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stylekart/storefront/pkg/httputil"
	"github.com/stylekart/storefront/pkg/middleware"
	"github.com/stylekart/storefront/pkg/validator"

	"github.com/stylekart/storefront/internal/identity"
	"github.com/stylekart/storefront/internal/session"
)

// AuthHandler handles login, logout, and registration.
type AuthHandler struct {
	identity *identity.Service
	carts    *session.Registry
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(identitySvc *identity.Service, carts *session.Registry, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identitySvc,
		carts:    carts,
		logger:   logger,
	}
}

// LoginRequest is the JSON request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/v1/auth/login. A successful login primes the user's
// cart session so the persisted cart is live before the first cart call.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.carts.ForUser(r.Context(), result.User.ID)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req identity.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.identity.Register(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: user})
}

// Logout handles POST /api/v1/auth/logout. The in-memory cart session is
// dropped; the durable cart slot survives for the next login.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	h.carts.Drop(r.Context(), userID)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "logged_out"}})
}
