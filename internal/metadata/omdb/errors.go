package omdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for OMDb API operations.
var (
	ErrNotConfigured = errors.New("omdb: api key not configured")
	ErrServer        = errors.New("omdb: server error")
	ErrCircuitOpen   = errors.New("omdb: circuit open")
)

// Error wraps an underlying error with the title being looked up.
type Error struct {
	Title string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("omdb ratings [%s]: %v", e.Title, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
