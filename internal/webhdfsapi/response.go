package webhdfsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingFileStatuses is returned when a LISTSTATUS reply lacks the
// FileStatuses.FileStatus array.
var ErrMissingFileStatuses = errors.New("webhdfs: response has no FileStatuses.FileStatus")

// ErrorBody is the decoded body of a failed gateway response. It is either
// Structured (a JSON object) or Raw text; the zero value is an empty Raw body.
type ErrorBody struct {
	JSON map[string]any
	Raw  string
}

// DecodeErrorBody tries to decode body as a JSON object and falls back to the
// raw text. It never fails: gateways answer with plain text for data-node
// network errors and with JSON for namenode application errors.
func DecodeErrorBody(body []byte) ErrorBody {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj map[string]any
		if err := json.Unmarshal(trimmed, &obj); err == nil && obj != nil {
			return ErrorBody{JSON: obj}
		}
	}
	return ErrorBody{Raw: string(body)}
}

// Structured reports whether the body decoded as a JSON object.
func (b ErrorBody) Structured() bool {
	return b.JSON != nil
}

// String renders structured bodies as compact JSON and raw bodies verbatim.
func (b ErrorBody) String() string {
	if b.JSON == nil {
		return b.Raw
	}
	data, err := json.Marshal(b.JSON)
	if err != nil {
		return fmt.Sprintf("%v", b.JSON)
	}
	return string(data)
}

// RemoteException extracts the standard WebHDFS exception envelope.
func (b ErrorBody) RemoteException() (RemoteException, bool) {
	if b.JSON == nil {
		return RemoteException{}, false
	}
	raw, ok := b.JSON["RemoteException"]
	if !ok {
		return RemoteException{}, false
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return RemoteException{}, false
	}
	var re RemoteException
	if err := json.Unmarshal(data, &re); err != nil {
		return RemoteException{}, false
	}
	return re, true
}

// DecodeFileStatuses extracts the directory entries of a LISTSTATUS reply.
// A reply without the FileStatuses.FileStatus array is an error, never an
// empty listing.
func DecodeFileStatuses(body []byte) ([]FileStatus, error) {
	var envelope struct {
		FileStatuses *struct {
			FileStatus *[]FileStatus `json:"FileStatus"`
		} `json:"FileStatuses"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &envelope); err != nil {
		return nil, fmt.Errorf("webhdfs: decode LISTSTATUS response: %w", err)
	}
	if envelope.FileStatuses == nil || envelope.FileStatuses.FileStatus == nil {
		return nil, ErrMissingFileStatuses
	}
	statuses := *envelope.FileStatuses.FileStatus
	if statuses == nil {
		statuses = []FileStatus{}
	}
	return statuses, nil
}

// DecodeBoolean decodes the {"boolean": ...} reply of MKDIRS and DELETE.
func DecodeBoolean(body []byte) (bool, error) {
	var reply BooleanResponse
	if err := json.Unmarshal(bytes.TrimSpace(body), &reply); err != nil {
		return false, fmt.Errorf("webhdfs: decode boolean response: %w", err)
	}
	if reply.Boolean == nil {
		return false, errors.New("webhdfs: response has no boolean field")
	}
	return *reply.Boolean, nil
}
