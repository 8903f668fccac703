package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoLocation is returned when a redirect response carries no Location header.
var ErrNoLocation = errors.New("httpx: redirect without Location header")

// RequestError reports a failed exchange: the request could not be sent or
// the response could not be read. It never carries an HTTP status.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("httpx: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Timeout reports whether the exchange failed because a deadline passed.
func (e *RequestError) Timeout() bool {
	if e == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
