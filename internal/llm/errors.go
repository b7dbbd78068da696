package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for generation requests.
var (
	ErrNotConfigured = errors.New("llm: api key not configured")
	ErrUnauthorized  = errors.New("llm: unauthorized")
	ErrBadRequest    = errors.New("llm: bad request")
	ErrRateLimited   = errors.New("llm: rate limited by server")
	ErrOverloaded    = errors.New("llm: overloaded")
	ErrServer        = errors.New("llm: server error")
)

// Error carries the API's error details alongside a sentinel.
type Error struct {
	Status  int
	Type    string // API error type, e.g. "invalid_request_error"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm generate [%d %s]: %v: %s", e.Status, e.Type, e.Err, e.Message)
	}
	return fmt.Sprintf("llm generate [%d]: %v", e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
