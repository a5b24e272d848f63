// Package analyzer talks to the multimodal model that estimates nutrition
// from a photo. It returns the model's raw text; parsing lives in package nutrition.
package analyzer

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("model returned no text")

// Image is an uploaded photo ready to be sent inline.
type Image struct {
	Data     []byte
	MIMEType string
}

// Analyzer is implemented by the Gemini client and by the DEV_MOCK fake.
type Analyzer interface {
	// AnalyzeImage asks for a nutrition estimate. quantity is an optional user hint such as "2 slices".
	AnalyzeImage(ctx context.Context, img Image, quantity string) (string, error)
	// Chat answers a free-form nutrition question.
	Chat(ctx context.Context, message string) (string, error)
}

// APIError is a non-200 answer from the model endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model API request failed with status %d: %s", e.StatusCode, e.Body)
}
