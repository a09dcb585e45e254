package http

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyRedirects is returned when a URL redirects more often than
	// the configured ceiling allows.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrUnsupportedProtocol is returned for URL schemes other than file, http and https.
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
)

// FetchError describes a failed fetch. StatusCode is the HTTP response code
// when one was received, 0 otherwise.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
