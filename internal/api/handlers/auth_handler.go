package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mosaiq/gallery/internal/api/response"
	"github.com/mosaiq/gallery/internal/auth"
	"github.com/mosaiq/gallery/internal/models"
)

// AuthProvider is the subset of the auth provider client the handlers use.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password, displayName string) (*auth.Session, error)
	Recover(ctx context.Context, email string) error
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*auth.Session, error)
}

// ProfileSyncer mirrors auth-provider accounts into the profiles table for attribution.
type ProfileSyncer interface {
	Upsert(ctx context.Context, profile models.Profile) error
}

// AuthHandler delegates authentication to the external provider and translates its
// failures into localized user-facing messages.
type AuthHandler struct {
	provider    AuthProvider
	profiles    ProfileSyncer
	redirectURL string
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler. redirectURL is where the OAuth
// callback sends the browser after a successful code exchange. Logger may be nil.
func NewAuthHandler(provider AuthProvider, profiles ProfileSyncer, redirectURL string, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		provider:    provider,
		profiles:    profiles,
		redirectURL: redirectURL,
		logger:      logger,
	}
}

// CredentialsRequest is the body for sign-in and sign-up.
type CredentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

// ResetPasswordRequest is the body for POST /v1/auth/reset-password.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// SessionResponse is the response for a successful sign-in, sign-up, or code exchange.
type SessionResponse struct {
	Success      bool        `json:"success"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         SessionUser `json:"user"`
}

// SessionUser is the account view returned with a session.
type SessionUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// SignIn handles POST /v1/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "invalid request body")

		return
	}

	if req.Email == "" || req.Password == "" {
		response.RespondBadRequest(w, "email and password are required")

		return
	}

	session, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondProviderError(w, err, auth.FlowSignIn)

		return
	}

	h.syncProfile(r.Context(), session.User)
	response.RespondJSON(w, http.StatusOK, sessionResponse(session))
}

// SignUp handles POST /v1/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "invalid request body")

		return
	}

	if req.Email == "" || req.Password == "" {
		response.RespondBadRequest(w, "email and password are required")

		return
	}

	session, err := h.provider.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.respondProviderError(w, err, auth.FlowSignUp)

		return
	}

	h.syncProfile(r.Context(), session.User)
	response.RespondJSON(w, http.StatusOK, sessionResponse(session))
}

// ResetPassword handles POST /v1/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "invalid request body")

		return
	}

	if req.Email == "" {
		response.RespondBadRequest(w, "email is required")

		return
	}

	if err := h.provider.Recover(r.Context(), req.Email); err != nil {
		h.respondProviderError(w, err, auth.FlowReset)

		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Callback handles GET /v1/auth/callback?code=. After a successful exchange the
// browser is redirected to the app; this redirect is the only application-specific
// part of the OAuth flow.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		response.RespondBadRequest(w, "code parameter is required")

		return
	}

	session, err := h.provider.ExchangeCode(r.Context(), code, r.URL.Query().Get("code_verifier"))
	if err != nil {
		h.respondProviderError(w, err, auth.FlowSignIn)

		return
	}

	h.syncProfile(r.Context(), session.User)
	http.Redirect(w, r, h.redirectURL, http.StatusSeeOther)
}

// syncProfile mirrors the account's display name for gallery attribution.
// Failures are logged, not surfaced: the sign-in itself succeeded.
func (h *AuthHandler) syncProfile(ctx context.Context, user auth.User) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		h.logger.Warn("auth: provider returned a non-UUID user id", "userId", user.ID)

		return
	}

	displayName := user.Metadata.DisplayName
	if displayName == "" {
		displayName = user.Email
	}

	if err := h.profiles.Upsert(ctx, models.Profile{ID: id, DisplayName: displayName}); err != nil {
		h.logger.Warn("auth: profile sync failed", "error", err, "userId", user.ID)
	}
}

// respondProviderError maps a provider failure to a status and a localized message.
func (h *AuthHandler) respondProviderError(w http.ResponseWriter, err error, flow auth.Flow) {
	var provErr *auth.ProviderError
	if errors.As(err, &provErr) {
		status := provErr.StatusCode
		if status < 400 || status > 499 {
			status = http.StatusInternalServerError
		}

		response.RespondError(w, status, auth.Message(flow, provErr.Code, provErr.Raw))

		return
	}

	h.logger.Error("auth: provider call failed", "error", err, "flow", string(flow))
	response.RespondError(w, http.StatusInternalServerError, auth.Message(flow, "", ""))
}

func sessionResponse(session *auth.Session) SessionResponse {
	return SessionResponse{
		Success:      true,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User: SessionUser{
			ID:          session.User.ID,
			Email:       session.User.Email,
			DisplayName: session.User.Metadata.DisplayName,
		},
	}
}
