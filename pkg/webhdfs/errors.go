package webhdfs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ratio1/webhdfs_sdk_go/internal/httpx"
	"github.com/Ratio1/webhdfs_sdk_go/internal/webhdfsapi"
)

// Kind classifies the outcome of an operation.
type Kind string

const (
	KindSuccess          Kind = "success"
	KindRemoteFailure    Kind = "remote_error"
	KindTransportFailure Kind = "transport_failure"
	KindLocalIOFailure   Kind = "local_io_failure"
	KindInvalidArgument  Kind = "invalid_argument"
)

// Phase numbers the requests of the redirect protocol. Single-request
// operations always run in PhaseInitiate.
type Phase int

const (
	PhaseInitiate Phase = 1
	PhaseData     Phase = 2
)

// RemoteError reports a gateway answer with an unexpected status, or a
// successful status whose body could not be used.
type RemoteError struct {
	Op         Operation
	Target     string
	Phase      Phase
	StatusCode int
	Body       ErrorBody
	// Err is set when the status was acceptable but the body was not.
	Err error
}

func newRemoteError(op Operation, target string, phase Phase, resp *httpx.Response) *RemoteError {
	return &RemoteError{
		Op:         op,
		Target:     target,
		Phase:      phase,
		StatusCode: resp.StatusCode,
		Body:       webhdfsapi.DecodeErrorBody(resp.Body),
	}
}

func (e *RemoteError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("webhdfs: %s %s: status %d: %v", e.Op, e.Target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("webhdfs: %s %s: phase %d status %d: %s", e.Op, e.Target, e.Phase, e.StatusCode, e.Body.String())
}

func (e *RemoteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NotFound reports whether the gateway answered 404.
func (e *RemoteError) NotFound() bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

// TransportError reports that an HTTP exchange with the gateway failed
// before a usable response arrived: dial errors, timeouts, unreadable
// bodies, or protocol violations such as a redirect without Location.
type TransportError struct {
	Op     Operation
	Target string
	Phase  Phase
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("webhdfs: %s %s: phase %d %s %s: %v", e.Op, e.Target, e.Phase, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Timeout reports whether the exchange ran out of time.
func (e *TransportError) Timeout() bool {
	if e == nil {
		return false
	}
	var reqErr *httpx.RequestError
	if errors.As(e.Err, &reqErr) {
		return reqErr.Timeout()
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// LocalIOError reports a failed local file or directory operation.
type LocalIOError struct {
	Op   Operation
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("webhdfs: %s local %s: %v", e.Op, e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Classify maps an operation error onto its outcome kind.
func Classify(err error) Kind {
	if err == nil {
		return KindSuccess
	}
	var (
		remoteErr    *RemoteError
		transportErr *TransportError
		localErr     *LocalIOError
	)
	switch {
	case errors.As(err, &remoteErr):
		return KindRemoteFailure
	case errors.As(err, &transportErr):
		return KindTransportFailure
	case errors.As(err, &localErr):
		return KindLocalIOFailure
	case errors.Is(err, ErrEmptyName):
		return KindInvalidArgument
	default:
		return KindTransportFailure
	}
}
