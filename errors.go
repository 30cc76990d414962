package lingoq

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an upstream provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Message     string
	Cause       error
	StatusCode  int  // HTTP status reported by the upstream, 0 if unknown
	RateLimited bool // Upstream asked us to slow down
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the AI returned a different number of translations than expected.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}

var rateLimitPatterns = []string{
	"429",
	"rate limit",
	"rate_limit",
	"ratelimit",
	"too many requests",
}

// IsRateLimited reports whether err signals upstream throttling, either
// through a ProviderError or through its message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		if providerErr.RateLimited || providerErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range rateLimitPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// IsCountMismatch reports whether err is a CountMismatchError.
func IsCountMismatch(err error) bool {
	var mismatch *CountMismatchError
	return errors.As(err, &mismatch)
}
