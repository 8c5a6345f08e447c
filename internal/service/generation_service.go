package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mosaiq/gallery/internal/storage"
)

// ErrEmptyPrompt is returned for empty or whitespace-only prompts.
var ErrEmptyPrompt = errors.New("prompt is required and must be non-empty")

// ImageGenerator produces an image for a prompt and returns the provider's
// temporary URL for it.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, size string) (string, error)
}

// ObjectStore persists image bytes and resolves a durable public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// GenerationService turns prompts into durable image URLs: it calls the generation
// provider, downloads the ephemeral result before it expires, and re-uploads the
// bytes to object storage.
type GenerationService struct {
	generator  ImageGenerator
	store      ObjectStore
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGenerationService creates a GenerationService. httpClient may be nil
// (http.DefaultClient is used); logger may be nil (slog default is used).
func NewGenerationService(generator ImageGenerator, store ObjectStore, httpClient *http.Client, logger *slog.Logger) *GenerationService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &GenerationService{
		generator:  generator,
		store:      store,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Generate produces an image for the prompt and returns its durable storage URL.
// One successful call writes exactly one object; a later contribution failure does
// not remove it, so orphaned objects can accumulate (accepted, not reconciled).
func (s *GenerationService) Generate(ctx context.Context, prompt, size string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	tempURL, err := s.generator.GenerateImage(ctx, prompt, size)
	if err != nil {
		s.logger.Error("generate: provider call failed", "error", err)

		// Not wrapped further: handlers map the provider sentinels to status codes.
		return "", err
	}

	body, err := s.fetchImage(ctx, tempURL)
	if err != nil {
		s.logger.Error("generate: fetching generated image failed", "error", err)

		return "", fmt.Errorf("fetch generated image: %w", err)
	}

	key := storage.ObjectKey(time.Now(), "png")

	durableURL, err := s.store.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "image/png")
	if err != nil {
		s.logger.Error("generate: storage upload failed", "error", err, "key", key)

		return "", fmt.Errorf("upload image: %w", err)
	}

	s.logger.Info("generated image stored", "key", key, "bytes", len(body))

	return durableURL, nil
}

// fetchImage downloads the provider's temporary image URL.
func (s *GenerationService) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn("generate: closing image response body failed", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching image", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}

	return body, nil
}
