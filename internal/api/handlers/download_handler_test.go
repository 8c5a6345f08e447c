package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func getDownload(t *testing.T, handler *DownloadHandler, query url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "http://test/v1/download?"+query.Encode(), nil)
	rec := httptest.NewRecorder()

	handler.Download(rec, req)

	return rec
}

func TestDownloadHandler_Download(t *testing.T) {
	imageBody := []byte("\x89PNG fake image bytes")

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		_, _ = w.Write(imageBody)
	}))
	defer upstream.Close()

	handler := NewDownloadHandler(upstream.Client(), nil)

	t.Run("missing url returns 400", func(t *testing.T) {
		rec := getDownload(t, handler, url.Values{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "url parameter is required")
	})

	t.Run("explicit jpg filename sets jpeg headers", func(t *testing.T) {
		rec := getDownload(t, handler, url.Values{
			"url":      {upstream.URL + "/images/a.png"},
			"filename": {"photo.jpg"},
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "photo.jpg")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Equal(t, imageBody, rec.Body.Bytes())
	})

	t.Run("filename inferred from url path", func(t *testing.T) {
		rec := getDownload(t, handler, url.Values{
			"url": {upstream.URL + "/images/animation.gif"},
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "animation.gif")
	})

	t.Run("extensionless url falls back to png", func(t *testing.T) {
		rec := getDownload(t, handler, url.Values{
			"url": {upstream.URL + "/"},
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "image.png")
	})

	t.Run("non-ascii filename gets extended syntax with ascii fallback", func(t *testing.T) {
		rec := getDownload(t, handler, url.Values{
			"url":      {upstream.URL + "/images/a.png"},
			"filename": {"写真.png"},
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		disposition := rec.Header().Get("Content-Disposition")
		assert.Contains(t, disposition, `filename="image.png"`)
		assert.Contains(t, disposition, "filename*=UTF-8''")
	})

	t.Run("upstream status is propagated", func(t *testing.T) {
		rec := getDownload(t, handler, url.Values{
			"url": {upstream.URL + "/missing.png"},
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "failed to fetch image")
	})
}

func TestContentTypeForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"animation.gif", "image/gif"},
		{"modern.webp", "image/webp"},
		{"image.png", "image/png"},
		{"noext", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, contentTypeForFilename(tt.filename))
		})
	}
}
