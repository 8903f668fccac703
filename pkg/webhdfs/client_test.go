package webhdfs_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ratio1/webhdfs_sdk_go/pkg/webhdfs"
	"github.com/Ratio1/webhdfs_sdk_go/pkg/webhdfs/mock"
)

func TestListRootSendsSingleRequest(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {
		_, _ = w.Write([]byte(`{"FileStatuses":{"FileStatus":[{"pathSuffix":"a","type":"FILE","length":3},{"pathSuffix":"b","type":"DIRECTORY"}]}}`))
	})
	client, _, log := newTestClient(t, g.URL)

	names, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	calls := g.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/webhdfs/v1/", calls[0].Path)
	assert.Equal(t, "user.name=alice&op=LISTSTATUS", calls[0].RawQuery)

	res := log.Last(t)
	assert.Equal(t, 2, res.Entries)
	assert.Equal(t, "Listed 2 entries in /.", res.Message())
}

func TestListEmptyDirectory(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {
		_, _ = w.Write([]byte(`{"FileStatuses":{"FileStatus":[]}}`))
	})
	client, _, _ := newTestClient(t, g.URL)

	names, err := client.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestListMissingFileStatusesIsError(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {
		_, _ = w.Write([]byte(`{"something":"else"}`))
	})
	client, _, log := newTestClient(t, g.URL)

	_, err := client.List(context.Background())
	require.ErrorIs(t, err, webhdfs.ErrMissingFileStatuses)
	var remoteErr *webhdfs.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusOK, remoteErr.StatusCode)
	assert.Equal(t, webhdfs.KindRemoteFailure, log.Last(t).Kind)
}

func TestListRemoteFailure(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"RemoteException":{"exception":"FileNotFoundException","message":"File /gone does not exist."}}`))
	})
	client, _, log := newTestClient(t, g.URL)
	client.Cd("gone")

	_, err := client.List(context.Background())
	var remoteErr *webhdfs.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "/gone", remoteErr.Target)
	assert.Contains(t, log.Last(t).Message(), "Error listing directory /gone: ")
	assert.Equal(t, "/webhdfs/v1/gone", g.Calls()[0].Path)
}

func TestMkdirAndDeleteReportBoolean(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {
		switch r.URL.Query().Get("op") {
		case "MKDIRS":
			_, _ = w.Write([]byte(`{"boolean":true}`))
		case "DELETE":
			_, _ = w.Write([]byte(`{"boolean":false}`))
		}
	})
	client, _, log := newTestClient(t, g.URL)
	ctx := context.Background()

	ok, err := client.Mkdir(ctx, "data")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Directory data created successfully.", log.Last(t).Message())

	ok, err = client.Delete(ctx, "data")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "File or directory data was not deleted (gateway returned false).", log.Last(t).Message())

	calls := g.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "user.name=alice&op=MKDIRS", calls[0].RawQuery)
	assert.Equal(t, http.MethodDelete, calls[1].Method)
	assert.Equal(t, "/webhdfs/v1/data", calls[1].Path)
}

func TestMkdirWithoutBodyStillSucceeds(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {})
	client, _, _ := newTestClient(t, g.URL)

	ok, err := client.Mkdir(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMkdirRemoteFailure(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("Permission denied"))
	})
	client, _, log := newTestClient(t, g.URL)

	ok, err := client.Mkdir(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Error creating directory x: Permission denied", log.Last(t).Message())
	assert.Equal(t, http.StatusForbidden, log.Last(t).StatusCode)
}

func TestEmptyNamesAreInvalidArguments(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {})
	client, _, log := newTestClient(t, g.URL)
	ctx := context.Background()

	_, err := client.Mkdir(ctx, " ")
	require.ErrorIs(t, err, webhdfs.ErrEmptyName)
	assert.Equal(t, webhdfs.KindInvalidArgument, log.Last(t).Kind)

	_, err = client.Get(ctx, "", "out")
	require.ErrorIs(t, err, webhdfs.ErrEmptyName)

	_, err = client.Append(ctx, "local", "")
	require.ErrorIs(t, err, webhdfs.ErrEmptyName)

	require.ErrorIs(t, client.LocalCd(""), webhdfs.ErrEmptyName)
	assert.Empty(t, g.Calls())
}

func TestLocalListAndCd(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request, n int) {})
	client, fs, log := newTestClient(t, g.URL)
	require.NoError(t, afero.WriteFile(fs, "/work/b.txt", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/a.txt", nil, 0o644))
	require.NoError(t, fs.MkdirAll("/work/sub", 0o755))

	names, err := client.LocalList(".")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, names)

	names, err = client.LocalList("missing")
	var localErr *webhdfs.LocalIOError
	require.True(t, errors.As(err, &localErr))
	assert.NotNil(t, names)
	assert.Empty(t, names)
	assert.Equal(t, webhdfs.KindLocalIOFailure, log.Last(t).Kind)

	require.NoError(t, client.LocalCd("sub"))
	assert.Equal(t, "/work/sub", client.LocalDir())
	assert.False(t, log.Last(t).Created)

	require.NoError(t, client.LocalCd("fresh/deeper"))
	assert.Equal(t, "/work/sub/fresh/deeper", client.LocalDir())
	assert.True(t, log.Last(t).Created)
	assert.Equal(t, "Directory fresh/deeper created. Changed local directory to fresh/deeper", log.Last(t).Message())

	require.NoError(t, afero.WriteFile(fs, "/work/plain", nil, 0o644))
	err = client.LocalCd("/work/plain")
	require.True(t, errors.As(err, &localErr))
	assert.Equal(t, "/work/sub/fresh/deeper", client.LocalDir())
	assert.Empty(t, g.Calls())
}

func TestRoundTripAgainstMockGateway(t *testing.T) {
	gw := mock.New(mock.WithSmallFileThreshold(4))
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)
	client, fs, _ := newTestClient(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, afero.WriteFile(fs, "/work/notes.txt", []byte("first\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/more.txt", []byte("second\n"), 0o644))

	ok, err := client.Mkdir(ctx, "docs")
	require.NoError(t, err)
	require.True(t, ok)
	client.Cd("docs")

	_, err = client.Put(ctx, "notes.txt")
	require.NoError(t, err)
	_, err = client.Append(ctx, "more.txt", "notes.txt")
	require.NoError(t, err)

	data, found := gw.File("/docs/notes.txt")
	require.True(t, found)
	assert.Equal(t, "first\nsecond\n", string(data))

	statuses, err := client.ListStatus(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "notes.txt", statuses[0].PathSuffix)
	assert.Equal(t, int64(13), statuses[0].Length)

	n, err := client.Get(ctx, "notes.txt", "copy.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)
	got, err := afero.ReadFile(fs, "/work/copy.txt")
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(got))

	ok, err = client.Delete(ctx, "notes.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	names, err := client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	client.Cd("..")
	ok, err = client.Delete(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}
