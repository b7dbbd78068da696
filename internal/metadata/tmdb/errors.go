package tmdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for TMDB API operations.
var (
	ErrNotConfigured = errors.New("tmdb: api key not configured")
	ErrNotFound      = errors.New("tmdb: not found")
	ErrUnauthorized  = errors.New("tmdb: unauthorized")
	ErrRateLimited   = errors.New("tmdb: rate limited by server")
	ErrBadRequest    = errors.New("tmdb: bad request")
	ErrServer        = errors.New("tmdb: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op   string // Operation: "search", "details", "providers", "trending", "videos"
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tmdb %s [%s]: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}

// retryable reports whether a failed request is worth repeating.
func retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServer)
}
