package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ratio1/webhdfs_sdk_go/internal/logging"
	"github.com/Ratio1/webhdfs_sdk_go/pkg/webhdfs/mock"
)

func TestParseFailConfig(t *testing.T) {
	cfg, err := parseFailConfig("")
	require.NoError(t, err)
	assert.Zero(t, cfg.rate)

	cfg, err = parseFailConfig("rate=0.25, code=503")
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.rate)
	assert.Equal(t, 503, cfg.code)

	cfg, err = parseFailConfig("rate=1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, cfg.code)

	for _, bad := range []string{"rate", "rate=x", "code=abc", "speed=1", "rate=2"} {
		_, err := parseFailConfig(bad)
		assert.Error(t, err, bad)
	}
}

func TestMiddlewareInjectsFailures(t *testing.T) {
	gw := mock.New()
	h := withMiddleware(logging.Discard(), 0, failConfig{rate: 1, code: http.StatusServiceUnavailable}, gw)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhdfs/v1/?user.name=u&op=LISTSTATUS", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = withMiddleware(logging.Discard(), 0, failConfig{}, gw)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhdfs/v1/?user.name=u&op=LISTSTATUS", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrintExports(t *testing.T) {
	var buf bytes.Buffer
	printExports(&buf, ":9870")
	assert.Contains(t, buf.String(), "export WEBHDFS_HOST=localhost\n")
	assert.Contains(t, buf.String(), "export WEBHDFS_PORT=9870\n")

	buf.Reset()
	printExports(&buf, "10.0.0.5:14000")
	assert.Contains(t, buf.String(), "export WEBHDFS_HOST=10.0.0.5\n")
	assert.Contains(t, buf.String(), "export WEBHDFS_PORT=14000\n")
}
