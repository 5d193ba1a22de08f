package search

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when no YouTube API key is configured
	ErrMissingAPIKey = errors.New("YouTube API key is not configured")

	// ErrEmptyQuery is returned when searching for blank text
	ErrEmptyQuery = errors.New("query is required")

	// ErrRateLimited is returned when the API rejects the call for quota or rate reasons
	ErrRateLimited = errors.New("rate limited")
)

// APIError is a non-200 answer from the YouTube API
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("youtube status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("youtube status %d", e.StatusCode)
}

// Is makes quota and rate-limit answers match ErrRateLimited
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.isRateLimit()
}

func (e *APIError) isRateLimit() bool {
	if e.StatusCode == 429 {
		return true
	}
	switch e.Reason {
	case "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded", "dailyLimitExceeded":
		return true
	}
	return false
}
