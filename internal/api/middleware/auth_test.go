package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaiq/gallery/internal/auth"
)

type mockUserResolver struct {
	getUserFunc func(ctx context.Context, accessToken string) (*auth.User, error)
}

func (m *mockUserResolver) GetUser(ctx context.Context, accessToken string) (*auth.User, error) {
	return m.getUserFunc(ctx, accessToken)
}

func captureProfile(captured **uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = ProfileIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	userID := uuid.New()
	resolver := &mockUserResolver{
		getUserFunc: func(_ context.Context, accessToken string) (*auth.User, error) {
			if accessToken != "good-token" {
				return nil, auth.ErrInvalidToken
			}

			return &auth.User{ID: userID.String()}, nil
		},
	}

	t.Run("valid token puts the profile in context", func(t *testing.T) {
		var captured *uuid.UUID

		handler := Auth(resolver)(captureProfile(&captured))
		req := httptest.NewRequest(http.MethodGet, "http://test/v1/gallery", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, userID, *captured)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		handler := Auth(resolver)(captureProfile(new(*uuid.UUID)))
		req := httptest.NewRequest(http.MethodGet, "http://test/v1/gallery", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		handler := Auth(resolver)(captureProfile(new(*uuid.UUID)))
		req := httptest.NewRequest(http.MethodGet, "http://test/v1/gallery", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed scheme is rejected", func(t *testing.T) {
		handler := Auth(resolver)(captureProfile(new(*uuid.UUID)))
		req := httptest.NewRequest(http.MethodGet, "http://test/v1/gallery", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	resolver := &mockUserResolver{
		getUserFunc: func(_ context.Context, accessToken string) (*auth.User, error) {
			if accessToken != "good-token" {
				return nil, auth.ErrInvalidToken
			}

			return &auth.User{ID: userID.String()}, nil
		},
	}

	t.Run("anonymous request passes through without a profile", func(t *testing.T) {
		var captured *uuid.UUID

		handler := OptionalAuth(resolver)(captureProfile(&captured))
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/contribute", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured)
	})

	t.Run("invalid token degrades to anonymous", func(t *testing.T) {
		var captured *uuid.UUID

		handler := OptionalAuth(resolver)(captureProfile(&captured))
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/contribute", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured)
	})

	t.Run("valid token attaches the profile", func(t *testing.T) {
		var captured *uuid.UUID

		handler := OptionalAuth(resolver)(captureProfile(&captured))
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/contribute", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.NotNil(t, captured)
		assert.Equal(t, userID, *captured)
	})
}
