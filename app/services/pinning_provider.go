// Package services provides external service integrations and technical concerns like pinning and caching
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMissingCID is returned when the provider accepted the upload but sent no content hash back
	ErrMissingCID = errors.New("pinning provider returned no content identifier")
	// ErrMissingToken is returned before any network call when no API token is configured
	ErrMissingToken = errors.New("pinning provider API token is not configured")
	// ErrUploadTimeout wraps the deadline error of a provider call that ran out of time
	ErrUploadTimeout = errors.New("pinning provider upload timed out")
)

type PinInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type PinResult struct {
	CID  string
	Name string
	Size int64
}

// PinningProvider uploads content to a content-addressed storage service
type PinningProvider interface {
	Name() string
	Pin(ctx context.Context, in PinInput) (*PinResult, error)
}

// ProviderError is a non-2xx answer from a pinning provider
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: http %d: %s", e.Provider, e.StatusCode, e.Body)
}

// StatusCodeOf extracts the provider HTTP status from err, or 0.
func StatusCodeOf(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}
