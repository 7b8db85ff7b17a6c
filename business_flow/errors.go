// Package businessflow contains the core business logic and use cases of the upload proxy and content endpoints
package businessflow

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/amirphl/mushola/app/services"
	"github.com/amirphl/mushola/utils"
)

// Business flow error constants
var (
	// Upload validation errors
	ErrNoFile          = errors.New("no file provided")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")

	// Chunk validation errors
	ErrMissingChunkFields = errors.New("missing required chunk fields")
	ErrInvalidChunk       = errors.New("invalid chunk parameters")

	// Provider errors
	ErrProviderNotConfigured = errors.New("pinning provider not configured")

	// Content errors
	ErrUnknownTopic = errors.New("unknown content topic")
)

// Error codes carried by BusinessError
const (
	CodeNoFile                = "NO_FILE"
	CodeInvalidFileType       = "INVALID_FILE_TYPE"
	CodeFileTooLarge          = "FILE_TOO_LARGE"
	CodeMissingFields         = "MISSING_FIELDS"
	CodeInvalidChunk          = "INVALID_CHUNK"
	CodeProviderNotConfigured = "PROVIDER_NOT_CONFIGURED"
	CodeUploadFailed          = "UPLOAD_FAILED"
	CodeContentNotFound       = "CONTENT_NOT_FOUND"
)

// Client-facing messages
const (
	MsgNoFile                = "No file provided"
	MsgInvalidFileType       = "Invalid file type. Only JPEG, PNG, and GIF are allowed."
	MsgFileTooLarge          = "File too large. Maximum size is %s."
	MsgMissingFields         = "Missing required fields"
	MsgInvalidChunk          = "Invalid chunk parameters"
	MsgProviderNotConfigured = "Filebase API token not configured"
	MsgUploadTimeout         = "Upload timed out. Please try again."
	MsgInvalidCredentials    = "Invalid Filebase credentials"
	MsgAccessDenied          = "Access denied to Filebase"
	MsgMissingCID            = "No CID returned from Filebase"
	MsgUploadFailed          = "Failed to upload to Filebase"
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// NewFileTooLargeError reports an upload above limit bytes. cause may be nil.
func NewFileTooLargeError(limit int64, cause error) *BusinessError {
	err := ErrFileTooLarge
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrFileTooLarge, cause)
	}
	return NewBusinessErrorf(CodeFileTooLarge, MsgFileTooLarge, err, sizeLabel(limit))
}

func sizeLabel(limit int64) string {
	if limit == utils.MaxUploadSize {
		return utils.MaxUploadSizeLabel
	}
	return fmt.Sprintf("%dMB", limit/(1024*1024))
}

// IsClientError reports whether err is a BusinessError caused by bad input
func IsClientError(err error) bool {
	var be *BusinessError
	if !errors.As(err, &be) {
		return false
	}
	switch be.Code {
	case CodeNoFile, CodeInvalidFileType, CodeFileTooLarge, CodeMissingFields, CodeInvalidChunk:
		return true
	}
	return false
}

// ClassifyUploadError picks the client-facing message for a failed provider call
func ClassifyUploadError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, services.ErrMissingToken) {
		return MsgProviderNotConfigured
	}
	switch services.StatusCodeOf(err) {
	case 401:
		return MsgInvalidCredentials
	case 403:
		return MsgAccessDenied
	}
	if IsUploadTimeout(err) {
		return MsgUploadTimeout
	}
	if errors.Is(err, services.ErrMissingCID) {
		return MsgMissingCID
	}
	return MsgUploadFailed
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsProviderNotConfigured(err error) bool {
	return errors.Is(err, ErrProviderNotConfigured) || errors.Is(err, services.ErrMissingToken)
}

func IsUnknownTopic(err error) bool {
	return errors.Is(err, ErrUnknownTopic)
}

// IsUploadTimeout matches deadline errors and net timeouts. Provider HTTP answers are never timeouts;
// other errors mentioning a timeout are.
func IsUploadTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, services.ErrUploadTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	if services.StatusCodeOf(err) != 0 {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}
