package webhdfs_test

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Ratio1/webhdfs_sdk_go/pkg/webhdfs"
)

const testUser = "alice"

type recordedCall struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
}

// gateway is an httptest server that records every request it receives.
// The handler is given the zero-based index of the call.
type gateway struct {
	*httptest.Server
	mu    sync.Mutex
	calls []recordedCall
}

func newGateway(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, n int)) *gateway {
	t.Helper()
	g := &gateway{}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		n := len(g.calls)
		g.calls = append(g.calls, recordedCall{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery, Body: body})
		g.mu.Unlock()
		handler(w, r, n)
	}))
	t.Cleanup(g.Close)
	return g
}

func (g *gateway) Calls() []recordedCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]recordedCall(nil), g.calls...)
}

func hostPort(t *testing.T, rawURL string) (string, int) {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

type resultLog struct {
	mu      sync.Mutex
	results []*webhdfs.Result
}

func (l *resultLog) Report(r *webhdfs.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
}

func (l *resultLog) Last(t *testing.T) *webhdfs.Result {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.results)
	return l.results[len(l.results)-1]
}

// newTestClient returns a client for srvURL with an in-memory local
// filesystem rooted at /work.
func newTestClient(t *testing.T, srvURL string, opts ...webhdfs.Option) (*webhdfs.Client, afero.Fs, *resultLog) {
	t.Helper()
	host, port := hostPort(t, srvURL)
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	log := &resultLog{}
	base := []webhdfs.Option{
		webhdfs.WithLocalFs(fs),
		webhdfs.WithLocalDir("/work"),
		webhdfs.WithReporter(log),
	}
	client, err := webhdfs.New(host, port, testUser, append(base, opts...)...)
	require.NoError(t, err)
	return client, fs, log
}
