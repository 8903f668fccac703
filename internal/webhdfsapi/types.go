// Package webhdfsapi holds the WebHDFS wire formats shared by the client and
// the in-memory gateway.
package webhdfsapi

import "fmt"

// Operation codes carried by the op query parameter.
const (
	OpMkdirs     = "MKDIRS"
	OpCreate     = "CREATE"
	OpOpen       = "OPEN"
	OpAppend     = "APPEND"
	OpDelete     = "DELETE"
	OpListStatus = "LISTSTATUS"
)

// PathPrefix is the namenode REST root.
const PathPrefix = "/webhdfs/v1"

// File types reported in FileStatus.Type.
const (
	TypeFile      = "FILE"
	TypeDirectory = "DIRECTORY"
)

// FileStatus mirrors the WebHDFS FileStatus JSON schema.
type FileStatus struct {
	AccessTime       int64  `json:"accessTime"`
	BlockSize        int64  `json:"blockSize"`
	Group            string `json:"group"`
	Length           int64  `json:"length"`
	ModificationTime int64  `json:"modificationTime"`
	Owner            string `json:"owner"`
	PathSuffix       string `json:"pathSuffix"`
	Permission       string `json:"permission"`
	Replication      int    `json:"replication"`
	Type             string `json:"type"`
}

// IsDir reports whether the entry is a directory.
func (s FileStatus) IsDir() bool {
	return s.Type == TypeDirectory
}

// ListStatusResponse is the LISTSTATUS reply.
type ListStatusResponse struct {
	FileStatuses FileStatuses `json:"FileStatuses"`
}

// FileStatuses wraps the entry array; the plural naming matches the schema.
type FileStatuses struct {
	FileStatus []FileStatus `json:"FileStatus"`
}

// BooleanResponse is the MKDIRS and DELETE reply.
type BooleanResponse struct {
	Boolean *bool `json:"boolean"`
}

// RemoteException is the error envelope returned by the namenode.
type RemoteException struct {
	Exception     string `json:"exception"`
	JavaClassName string `json:"javaClassName"`
	Message       string `json:"message"`
}

func (re RemoteException) Error() string {
	return fmt.Sprintf("%s: %s", re.Exception, re.Message)
}

// RemoteExceptionResponse wraps RemoteException as sent on the wire.
type RemoteExceptionResponse struct {
	RemoteException RemoteException `json:"RemoteException"`
}
