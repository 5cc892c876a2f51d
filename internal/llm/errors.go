package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
)

// ErrorType classifies provider failures for retry decisions.
type ErrorType string

const (
	// ErrorTypeFatal is a permanent failure (bad request, auth).
	ErrorTypeFatal ErrorType = "fatal"
	// ErrorTypeTransient is a temporary failure worth retrying.
	ErrorTypeTransient ErrorType = "transient"
	// ErrorTypeRateLimited means the provider returned 429.
	ErrorTypeRateLimited ErrorType = "rate_limited"
	// ErrorTypeContextOverflow means the prompt exceeded the model's window.
	ErrorTypeContextOverflow ErrorType = "context_overflow"
)

// ProviderError wraps a provider failure with its classification.
type ProviderError struct {
	Type      ErrorType
	Retryable bool
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm %s error: %v", e.Type, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// classifyError maps SDK and network errors to a ProviderError.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return classifyStatus(openaiErr.StatusCode, err)
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return classifyStatus(anthropicErr.StatusCode, err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "context length") || strings.Contains(msg, "prompt is too long") {
		return &ProviderError{Type: ErrorTypeContextOverflow, Retryable: false, Err: err}
	}

	// Everything else is assumed to be a network-level failure.
	return &ProviderError{Type: ErrorTypeTransient, Retryable: true, Err: err}
}

// classifyStatus maps an HTTP status code to a ProviderError.
func classifyStatus(code int, err error) *ProviderError {
	switch {
	case code == http.StatusTooManyRequests:
		return &ProviderError{Type: ErrorTypeRateLimited, Retryable: true, Err: err}
	case code == http.StatusRequestTimeout || code == http.StatusConflict:
		return &ProviderError{Type: ErrorTypeTransient, Retryable: true, Err: err}
	case code >= 500:
		return &ProviderError{Type: ErrorTypeTransient, Retryable: true, Err: err}
	default:
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "context length") || strings.Contains(msg, "prompt is too long") {
			return &ProviderError{Type: ErrorTypeContextOverflow, Retryable: false, Err: err}
		}
		return &ProviderError{Type: ErrorTypeFatal, Retryable: false, Err: err}
	}
}
