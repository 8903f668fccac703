package webhdfs

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/Ratio1/webhdfs_sdk_go/internal/webhdfsapi"
)

// Operation identifies a gateway operation, or a local one for reporting.
type Operation string

// Gateway operations, sent as the op query parameter.
const (
	OpMkdirs     Operation = webhdfsapi.OpMkdirs
	OpCreate     Operation = webhdfsapi.OpCreate
	OpOpen       Operation = webhdfsapi.OpOpen
	OpAppend     Operation = webhdfsapi.OpAppend
	OpDelete     Operation = webhdfsapi.OpDelete
	OpListStatus Operation = webhdfsapi.OpListStatus
)

// Local operations. They never reach the gateway.
const (
	OpLocalList Operation = "LOCAL_LIST"
	OpLocalCd   Operation = "LOCAL_CD"
)

// Endpoint identifies the gateway and the principal sent as user.name.
type Endpoint struct {
	Host string
	Port int
	User string
}

// Validate checks that every field is usable.
func (e Endpoint) Validate() error {
	if strings.TrimSpace(e.Host) == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidEndpoint)
	}
	if e.Port <= 0 || e.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidEndpoint, e.Port)
	}
	if strings.TrimSpace(e.User) == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidEndpoint)
	}
	return nil
}

// BaseURL returns the gateway root, e.g. http://namenode:9870.
func (e Endpoint) BaseURL() string {
	return "http://" + net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// FileStatus describes one remote directory entry.
type FileStatus = webhdfsapi.FileStatus

// ErrorBody is a failed response body, structured JSON or raw text.
type ErrorBody = webhdfsapi.ErrorBody

// RemoteException is the namenode error envelope.
type RemoteException = webhdfsapi.RemoteException

var (
	// ErrInvalidEndpoint indicates unusable host, port or user.
	ErrInvalidEndpoint = errors.New("webhdfs: invalid endpoint")
	// ErrMissingLocation indicates a 307 reply without a Location header.
	ErrMissingLocation = errors.New("webhdfs: redirect without Location header")
	// ErrMissingFileStatuses indicates a LISTSTATUS reply without entries array.
	ErrMissingFileStatuses = webhdfsapi.ErrMissingFileStatuses
	// ErrEmptyName indicates a blank remote or local name argument.
	ErrEmptyName = errors.New("webhdfs: name is required")
)
