package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mosaiq/gallery/internal/api/response"
	"github.com/mosaiq/gallery/internal/auth"
)

type contextKey string

const profileIDContextKey contextKey = "profile_id"

// UserResolver validates an access token with the auth provider.
type UserResolver interface {
	GetUser(ctx context.Context, accessToken string) (*auth.User, error)
}

// ProfileIDFromContext returns the authenticated profile ID, or nil for
// anonymous requests.
func ProfileIDFromContext(ctx context.Context) *uuid.UUID {
	id, ok := ctx.Value(profileIDContextKey).(uuid.UUID)
	if !ok {
		return nil
	}

	return &id
}

// ContextWithProfileID returns a context carrying the authenticated profile ID.
func ContextWithProfileID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, profileIDContextKey, id)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}

// resolveProfile validates the token and returns the provider user ID as a UUID.
func resolveProfile(r *http.Request, users UserResolver) (uuid.UUID, bool) {
	token := bearerToken(r)
	if token == "" {
		return uuid.Nil, false
	}

	user, err := users.GetUser(r.Context(), token)
	if err != nil {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// Auth requires a valid bearer token resolved by the auth provider. The profile ID
// is stored in the request context for handlers.
func Auth(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := resolveProfile(r, users)
			if !ok {
				response.RespondUnauthorized(w, "a valid access token is required")

				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithProfileID(r.Context(), id)))
		})
	}
}

// OptionalAuth resolves the bearer token when present but never rejects the
// request; anonymous callers pass through with no profile in context.
func OptionalAuth(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := resolveProfile(r, users); ok {
				r = r.WithContext(ContextWithProfileID(r.Context(), id))
			}

			next.ServeHTTP(w, r)
		})
	}
}
