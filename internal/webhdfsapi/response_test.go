package webhdfsapi

import (
	"errors"
	"testing"
)

func TestDecodeErrorBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		structured bool
		expected   string
	}{
		{
			name:       "remote exception",
			body:       `{"RemoteException":{"exception":"FileNotFoundException","javaClassName":"java.io.FileNotFoundException","message":"File does not exist: /a"}}`,
			structured: true,
			expected:   `{"RemoteException":{"exception":"FileNotFoundException","javaClassName":"java.io.FileNotFoundException","message":"File does not exist: /a"}}`,
		},
		{
			name:       "plain text",
			body:       "Connection refused by datanode",
			structured: false,
			expected:   "Connection refused by datanode",
		},
		{
			name:       "truncated json",
			body:       `{"RemoteException":`,
			structured: false,
			expected:   `{"RemoteException":`,
		},
		{
			name:       "json array stays raw",
			body:       `["a"]`,
			structured: false,
			expected:   `["a"]`,
		},
		{
			name:       "empty body",
			body:       ``,
			structured: false,
			expected:   ``,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeErrorBody([]byte(tc.body))
			if got.Structured() != tc.structured {
				t.Fatalf("Structured mismatch: expected %v, got %v", tc.structured, got.Structured())
			}
			if got.String() != tc.expected {
				t.Fatalf("String mismatch: expected %q, got %q", tc.expected, got.String())
			}
		})
	}
}

func TestErrorBodyRemoteException(t *testing.T) {
	body := DecodeErrorBody([]byte(`{"RemoteException":{"exception":"AccessControlException","javaClassName":"org.apache.hadoop.security.AccessControlException","message":"Permission denied"}}`))
	re, ok := body.RemoteException()
	if !ok {
		t.Fatalf("expected RemoteException to be present")
	}
	if re.Exception != "AccessControlException" || re.Message != "Permission denied" {
		t.Fatalf("unexpected exception: %+v", re)
	}
	if re.Error() != "AccessControlException: Permission denied" {
		t.Fatalf("unexpected Error(): %q", re.Error())
	}

	if _, ok := DecodeErrorBody([]byte(`{"other":1}`)).RemoteException(); ok {
		t.Fatalf("expected no RemoteException for foreign object")
	}
	if _, ok := DecodeErrorBody([]byte("text")).RemoteException(); ok {
		t.Fatalf("expected no RemoteException for raw body")
	}
}

func TestDecodeFileStatuses(t *testing.T) {
	body := []byte(`{"FileStatuses":{"FileStatus":[
		{"pathSuffix":"a.txt","type":"FILE","length":12,"owner":"hdfs"},
		{"pathSuffix":"dir","type":"DIRECTORY"}
	]}}`)
	statuses, err := DecodeFileStatuses(body)
	if err != nil {
		t.Fatalf("DecodeFileStatuses returned error: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(statuses))
	}
	if statuses[0].PathSuffix != "a.txt" || statuses[0].Length != 12 || statuses[0].IsDir() {
		t.Fatalf("unexpected first entry: %+v", statuses[0])
	}
	if !statuses[1].IsDir() {
		t.Fatalf("expected second entry to be a directory")
	}

	empty, err := DecodeFileStatuses([]byte(`{"FileStatuses":{"FileStatus":[]}}`))
	if err != nil {
		t.Fatalf("empty listing returned error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil listing, got %#v", empty)
	}
}

func TestDecodeFileStatusesMissingField(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"FileStatuses":{}}`,
		`{"FileStatuses":{"FileStatus":null}}`,
		`{"boolean":true}`,
	} {
		if _, err := DecodeFileStatuses([]byte(body)); !errors.Is(err, ErrMissingFileStatuses) {
			t.Fatalf("body %s: expected ErrMissingFileStatuses, got %v", body, err)
		}
	}
	if _, err := DecodeFileStatuses([]byte("not json")); err == nil || errors.Is(err, ErrMissingFileStatuses) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDecodeBoolean(t *testing.T) {
	ok, err := DecodeBoolean([]byte(`{"boolean":true}`))
	if err != nil || !ok {
		t.Fatalf("expected true, got %v (%v)", ok, err)
	}
	ok, err = DecodeBoolean([]byte(`{"boolean":false}`))
	if err != nil || ok {
		t.Fatalf("expected false, got %v (%v)", ok, err)
	}
	if _, err := DecodeBoolean([]byte(`{}`)); err == nil {
		t.Fatalf("expected error for missing boolean")
	}
	if _, err := DecodeBoolean([]byte(`oops`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
