package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTextEntry is returned when a compressed feed holds no CSV entry
	ErrNoTextEntry = errors.New("archive contains no csv entry")

	// ErrFeedNotConfigured is returned when no feed URL is set
	ErrFeedNotConfigured = errors.New("feed url not configured")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// TransportError wraps a network or timeout failure reaching the feed host.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("feed transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamStatusError is returned when the feed host answers with a non-2xx status.
type UpstreamStatusError struct {
	StatusCode  int
	Status      string
	BodySnippet string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("feed HTTP %d %s: body: %s", e.StatusCode, e.Status, e.BodySnippet)
}

// ParseError reports stream-level corruption while reading feed rows.
// Row-level problems never produce one.
type ParseError struct {
	Row int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed parse error after %d rows: %v", e.Row, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
