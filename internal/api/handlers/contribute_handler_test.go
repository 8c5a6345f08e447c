package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaiq/gallery/internal/api/middleware"
	"github.com/mosaiq/gallery/internal/service"
)

type mockContributionService struct {
	contributeFunc func(ctx context.Context, imageURL, prompt string, profileID *uuid.UUID) (uuid.UUID, error)
	calls          int
}

func (m *mockContributionService) Contribute(
	ctx context.Context, imageURL, prompt string, profileID *uuid.UUID,
) (uuid.UUID, error) {
	m.calls++
	if m.contributeFunc != nil {
		return m.contributeFunc(ctx, imageURL, prompt, profileID)
	}

	return uuid.New(), nil
}

func TestContributeHandler_Contribute(t *testing.T) {
	t.Run("missing fields return 400", func(t *testing.T) {
		mock := &mockContributionService{
			contributeFunc: func(_ context.Context, _, _ string, _ *uuid.UUID) (uuid.UUID, error) {
				return uuid.Nil, service.ErrMissingPrompt
			},
		}
		handler := NewContributeHandler(mock)
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/contribute",
			bytes.NewReader([]byte(`{"imageUrl":"https://storage.example.com/images/a.png"}`)))
		rec := httptest.NewRecorder()

		handler.Contribute(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "imageUrl and prompt are required")
	})

	t.Run("success echoes the image URL", func(t *testing.T) {
		mock := &mockContributionService{
			contributeFunc: func(_ context.Context, imageURL, prompt string, profileID *uuid.UUID) (uuid.UUID, error) {
				assert.Equal(t, "https://storage.example.com/images/a.png", imageURL)
				assert.Equal(t, "a red fox", prompt)
				assert.Nil(t, profileID, "anonymous request carries no profile")

				return uuid.New(), nil
			},
		}
		handler := NewContributeHandler(mock)
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/contribute",
			bytes.NewReader([]byte(`{"imageUrl":"https://storage.example.com/images/a.png","prompt":"a red fox"}`)))
		rec := httptest.NewRecorder()

		handler.Contribute(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ContributeResponse

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "https://storage.example.com/images/a.png", resp.ImageURL)
	})

	t.Run("authenticated request passes the profile through", func(t *testing.T) {
		profileID := uuid.New()
		mock := &mockContributionService{
			contributeFunc: func(_ context.Context, _, _ string, gotProfile *uuid.UUID) (uuid.UUID, error) {
				require.NotNil(t, gotProfile)
				assert.Equal(t, profileID, *gotProfile)

				return uuid.New(), nil
			},
		}
		handler := NewContributeHandler(mock)
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/contribute",
			bytes.NewReader([]byte(`{"imageUrl":"https://storage.example.com/images/a.png","prompt":"a red fox"}`)))
		req = req.WithContext(middleware.ContextWithProfileID(req.Context(), profileID))
		rec := httptest.NewRecorder()

		handler.Contribute(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, mock.calls)
	})

	t.Run("identical contributions each produce an insert", func(t *testing.T) {
		mock := &mockContributionService{}
		handler := NewContributeHandler(mock)
		body := `{"imageUrl":"https://storage.example.com/images/a.png","prompt":"a red fox"}`

		for range 2 {
			req := httptest.NewRequest(http.MethodPost, "http://test/v1/contribute",
				bytes.NewReader([]byte(body)))
			rec := httptest.NewRecorder()

			handler.Contribute(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		}

		assert.Equal(t, 2, mock.calls)
	})

	t.Run("upstream failure returns generic 500", func(t *testing.T) {
		mock := &mockContributionService{
			contributeFunc: func(_ context.Context, _, _ string, _ *uuid.UUID) (uuid.UUID, error) {
				return uuid.Nil, assert.AnError
			},
		}
		handler := NewContributeHandler(mock)
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/contribute",
			bytes.NewReader([]byte(`{"imageUrl":"https://storage.example.com/images/a.png","prompt":"a red fox"}`)))
		rec := httptest.NewRecorder()

		handler.Contribute(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "contribute failed")
	})
}
