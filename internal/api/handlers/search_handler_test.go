package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaiq/gallery/internal/models"
	"github.com/mosaiq/gallery/internal/service"
)

type mockSearchService struct {
	searchFunc func(ctx context.Context, query string) ([]models.CatalogEntryWithScore, error)
}

func (m *mockSearchService) Search(ctx context.Context, query string) ([]models.CatalogEntryWithScore, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}

	return nil, nil
}

func TestSearchHandler_Search(t *testing.T) {
	t.Run("invalid body returns 400", func(t *testing.T) {
		handler := NewSearchHandler(&mockSearchService{})
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/search", bytes.NewReader([]byte(`{`)))
		rec := httptest.NewRecorder()

		handler.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty query returns 400", func(t *testing.T) {
		mock := &mockSearchService{
			searchFunc: func(_ context.Context, _ string) ([]models.CatalogEntryWithScore, error) {
				return nil, service.ErrEmptyQuery
			},
		}
		handler := NewSearchHandler(mock)
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/search", bytes.NewReader([]byte(`{"query":"   "}`)))
		rec := httptest.NewRecorder()

		handler.Search(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success returns ordered results with count", func(t *testing.T) {
		id1 := uuid.MustParse("018e1234-5678-9abc-def0-111111111111")
		id2 := uuid.MustParse("018e1234-5678-9abc-def0-222222222222")
		profileID := uuid.MustParse("018e1234-5678-9abc-def0-333333333333")
		name := "Aki"
		created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		mock := &mockSearchService{
			searchFunc: func(_ context.Context, query string) ([]models.CatalogEntryWithScore, error) {
				assert.Equal(t, "tokyo at night", query)

				return []models.CatalogEntryWithScore{
					{ID: id1, ProfileID: &profileID, DisplayName: &name, Prompt: "neon tokyo",
						ImageURL: "https://storage.example.com/images/a.png", CreatedAt: created, Score: 0.92},
					{ID: id2, Prompt: "city lights",
						ImageURL: "https://storage.example.com/images/b.png", CreatedAt: created, Score: 0.81},
				}, nil
			},
		}
		handler := NewSearchHandler(mock)
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/search",
			bytes.NewReader([]byte(`{"query":"tokyo at night"}`)))
		rec := httptest.NewRecorder()

		handler.Search(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SearchResponse

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "tokyo at night", resp.Query)
		assert.Equal(t, 2, resp.Count)
		require.Len(t, resp.Results, 2)

		assert.Equal(t, id1, resp.Results[0].ID)
		assert.Equal(t, &profileID, resp.Results[0].ProfileID)
		assert.Equal(t, &name, resp.Results[0].DisplayName)
		assert.Equal(t, "2025-06-01T12:00:00Z", resp.Results[0].CreatedAt)
		assert.InDelta(t, 0.92, resp.Results[0].Similarity, 1e-9)

		assert.Nil(t, resp.Results[1].ProfileID)
		assert.Nil(t, resp.Results[1].DisplayName)
		assert.GreaterOrEqual(t, resp.Results[0].Similarity, resp.Results[1].Similarity)
	})

	t.Run("upstream failure returns generic 500", func(t *testing.T) {
		mock := &mockSearchService{
			searchFunc: func(_ context.Context, _ string) ([]models.CatalogEntryWithScore, error) {
				return nil, assert.AnError
			},
		}
		handler := NewSearchHandler(mock)
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/search",
			bytes.NewReader([]byte(`{"query":"tokyo"}`)))
		rec := httptest.NewRecorder()

		handler.Search(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "search failed")
	})
}
