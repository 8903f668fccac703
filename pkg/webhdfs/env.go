package webhdfs

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/Ratio1/webhdfs_sdk_go/internal/devseed"
	"github.com/Ratio1/webhdfs_sdk_go/pkg/webhdfs/mock"
)

const (
	envMode = "WEBHDFS_MODE"
	envHost = "WEBHDFS_HOST"
	envPort = "WEBHDFS_PORT"
	envUser = "WEBHDFS_USER"
	envSeed = "WEBHDFS_MOCK_SEED"

	modeAuto = "auto"
	modeHTTP = "http"
	modeMock = "mock"

	defaultPort = 9870
	mockHost    = "mock.webhdfs.local"
)

// NewFromEnv builds a client from WEBHDFS_* variables and returns the
// resolved mode ("http" or "mock"). WEBHDFS_MODE=auto, the default, picks
// http when WEBHDFS_HOST is set and mock otherwise; mock mode serves an
// in-process gateway, pre-populated from the WEBHDFS_MOCK_SEED file when set.
func NewFromEnv(opts ...Option) (*Client, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(envMode)))
	host := strings.TrimSpace(os.Getenv(envHost))
	user := strings.TrimSpace(os.Getenv(envUser))
	if user == "" {
		user = "hdfs"
	}
	port := defaultPort
	if raw := strings.TrimSpace(os.Getenv(envPort)); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return nil, "", fmt.Errorf("webhdfs: invalid %s %q: %w", envPort, raw, err)
		}
		port = p
	}

	switch mode {
	case "", modeAuto:
		if host != "" {
			return newHTTPClient(host, port, user, opts)
		}
		return newMockClient(user, opts)
	case modeHTTP:
		if host == "" {
			return nil, "", fmt.Errorf("webhdfs: HTTP mode requires %s", envHost)
		}
		return newHTTPClient(host, port, user, opts)
	case modeMock:
		return newMockClient(user, opts)
	default:
		return nil, "", fmt.Errorf("webhdfs: unsupported %s value %q", envMode, mode)
	}
}

func newHTTPClient(host string, port int, user string, opts []Option) (*Client, string, error) {
	c, err := New(host, port, user, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("webhdfs: init HTTP client: %w", err)
	}
	return c, modeHTTP, nil
}

func newMockClient(user string, opts []Option) (*Client, string, error) {
	gw := mock.New()
	if seedPath := strings.TrimSpace(os.Getenv(envSeed)); seedPath != "" {
		seed, err := devseed.Load(seedPath)
		if err != nil {
			return nil, "", fmt.Errorf("webhdfs: load mock seed: %w", err)
		}
		if err := gw.SeedDirs(seed.Dirs...); err != nil {
			return nil, "", fmt.Errorf("webhdfs: apply mock seed: %w", err)
		}
		if err := gw.Seed(seed.Files); err != nil {
			return nil, "", fmt.Errorf("webhdfs: apply mock seed: %w", err)
		}
	}
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: gw.Transport()})}, opts...)
	c, err := New(mockHost, defaultPort, user, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("webhdfs: init mock client: %w", err)
	}
	return c, modeMock, nil
}
