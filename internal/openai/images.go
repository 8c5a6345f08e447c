package openai

import (
	"context"
	"errors"
	"fmt"

	openaisdk "github.com/openai/openai-go/v3"
)

var (
	// ErrEmptyPrompt is returned when GenerateImage is called with an empty prompt.
	ErrEmptyPrompt = errors.New("openai: prompt is empty")
	// ErrNoImageInResponse is returned when the API response contains no image data or URL.
	ErrNoImageInResponse = errors.New("openai: no image in response")

	// ErrBillingLimit means the account's billing hard limit was reached (provider code
	// billing_hard_limit_reached). Maps to 402 at the API surface.
	ErrBillingLimit = errors.New("openai: billing hard limit reached")
	// ErrPromptRejected means generation refused the prompt (provider type
	// image_generation_user_error). Maps to 400 at the API surface.
	ErrPromptRejected = errors.New("openai: image generation rejected the prompt")
)

const (
	// DefaultImageSize is used when the caller does not request a size.
	DefaultImageSize = "1024x1024"

	billingLimitCode   = "billing_hard_limit_reached"
	promptRejectedType = "image_generation_user_error"
)

// GenerateImage generates one image for the given prompt and returns the provider's
// temporary image URL. The URL expires; callers must download the bytes promptly and
// persist them elsewhere. Failures are classified into ErrBillingLimit,
// ErrPromptRejected, or left as-is (unknown).
func (c *Client) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	if size == "" {
		size = DefaultImageSize
	}

	resp, err := c.sdk.Images.Generate(ctx, openaisdk.ImageGenerateParams{
		Prompt: prompt,
		Model:  openaisdk.ImageModelDallE3,
		Size:   openaisdk.ImageGenerateParamsSize(size),
	})
	if err != nil {
		return "", classifyGenerationError(err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", ErrNoImageInResponse
	}

	return resp.Data[0].URL, nil
}

// classifyGenerationError maps provider error codes to the sentinel errors the
// generation flow distinguishes. Anything unrecognized passes through wrapped,
// which the API surface reports as unknown.
func classifyGenerationError(err error) error {
	var apierr *openaisdk.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.Code == billingLimitCode:
			return fmt.Errorf("%w: %s", ErrBillingLimit, apierr.Message)
		case apierr.Type == promptRejectedType:
			return fmt.Errorf("%w: %s", ErrPromptRejected, apierr.Message)
		}
	}

	return fmt.Errorf("openai image generation: %w", err)
}
