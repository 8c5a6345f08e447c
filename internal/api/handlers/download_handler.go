package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/mosaiq/gallery/internal/api/response"
)

// DownloadHandler proxies remote images server-side so the browser can download
// them despite cross-origin restrictions.
type DownloadHandler struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDownloadHandler creates a download proxy handler. httpClient may be nil
// (http.DefaultClient is used); logger may be nil.
func NewDownloadHandler(httpClient *http.Client, logger *slog.Logger) *DownloadHandler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DownloadHandler{httpClient: httpClient, logger: logger}
}

// Download handles GET /v1/download?url=&filename=. It fetches the remote image and
// streams it back with Content-Disposition: attachment so the browser saves it.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		response.RespondBadRequest(w, "url parameter is required")

		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = filenameFromURL(imageURL)
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, imageURL, nil)
	if err != nil {
		response.RespondBadRequest(w, "invalid url")

		return
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Error("download: upstream fetch failed", "error", err)
		response.RespondInternalServerError(w, "failed to fetch image")

		return
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			h.logger.Warn("download: closing upstream body failed", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		// Propagate the upstream failure status as-is.
		response.RespondError(w, resp.StatusCode, "failed to fetch image")

		return
	}

	w.Header().Set("Content-Type", contentTypeForFilename(filename))
	w.Header().Set("Content-Disposition", contentDisposition(filename))

	if resp.ContentLength > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", resp.ContentLength))
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Warn("download: streaming image failed", "error", err)
	}
}

// filenameFromURL derives a download name from the URL's last path segment,
// falling back to image.png when the URL has none.
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "image.png"
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "image.png"
	}

	return name
}

// contentTypeForFilename infers the MIME type from the filename extension.
// Unknown or missing extensions fall back to image/png.
func contentTypeForFilename(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// contentDisposition builds an attachment header for filename. Non-ASCII names get
// the RFC 5987 extended syntax (filename*=UTF-8''...) alongside an ASCII fallback.
func contentDisposition(filename string) string {
	if isASCII(filename) {
		return fmt.Sprintf(`attachment; filename="%s"`, strings.ReplaceAll(filename, `"`, ""))
	}

	fallback := "image" + path.Ext(filename)

	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		fallback, url.PathEscape(filename))
}

func isASCII(s string) bool {
	for _, c := range s {
		if c > 127 {
			return false
		}
	}

	return true
}
