package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/handler"
	"github.com/dukerupert/vortex/internal/middleware"
	"github.com/dukerupert/vortex/internal/telemetry"
)

// AuthHandler handles signup, login and logout. The bearer token issued by
// the auth service stays in the session and is never returned to the browser.
type AuthHandler struct {
	auth      Auth
	validator Validator
	metrics   *telemetry.BusinessMetrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Auth, validator Validator, metrics *telemetry.BusinessMetrics) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		validator: validator,
		metrics:   metrics,
	}
}

type accountResponse struct {
	User     domain.User `json:"user"`
	SignedIn bool        `json:"signedIn"`
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.validator.Struct("auth.signup", req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	resp, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.RecordSignup()
	middleware.GetLogger(r.Context()).Info("shopper signed up", "user_id", resp.User.ID)
	handler.WriteJSON(w, http.StatusCreated, accountResponse{User: resp.User, SignedIn: resp.Token != ""})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.validator.Struct("auth.login", req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.metrics.RecordLogin(false)
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.RecordLogin(true)
	handler.WriteJSON(w, http.StatusOK, accountResponse{User: resp.User, SignedIn: resp.Token != ""})
}

// Logout handles POST /auth/logout. The session token is dropped even when
// the auth service cannot be reached.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		middleware.GetLogger(r.Context()).Warn("logout request failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
