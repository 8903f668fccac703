package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Ratio1/webhdfs_sdk_go/internal/config"
	"github.com/Ratio1/webhdfs_sdk_go/internal/logging"
	"github.com/Ratio1/webhdfs_sdk_go/pkg/webhdfs"
)

// session is one client with its reporters, shared by every command run in
// the same process so that cd and lcd persist inside the shell.
type session struct {
	cfg     *config.Configuration
	client  *webhdfs.Client
	log     *logrus.Logger
	out     io.Writer
	metrics *http.Server
}

// loadConfig layers defaults, the config file, WEBHDFS_* variables and
// explicit flags, in that order.
func loadConfig(c *cli.Context) (*config.Configuration, error) {
	cfg := config.NewDefault()
	if path := c.String("config"); path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if c.IsSet("host") {
		cfg.Gateway.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Gateway.Port = c.Int("port")
	}
	if c.IsSet("user") {
		cfg.Gateway.User = c.String("user")
	}
	if c.IsSet("timeout") {
		cfg.HTTP.Timeout = c.Duration("timeout")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.IsSet("local-dir") {
		cfg.Local.Dir = c.String("local-dir")
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
		cfg.Metrics.Enabled = cfg.Metrics.Addr != ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: c.App.ErrWriter})
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: logger, out: c.App.Writer}
	opts := []webhdfs.Option{
		webhdfs.WithTimeout(cfg.HTTP.Timeout),
		webhdfs.WithLogger(logger),
		webhdfs.WithReporter(webhdfs.NewConsoleReporter(s.out, c.Bool("no-color"))),
		webhdfs.WithLocalDir(cfg.Local.Dir),
	}
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		opts = append(opts, webhdfs.WithReporter(webhdfs.LogReporter{Log: logger}))
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m, err := webhdfs.NewMetrics(reg)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, webhdfs.WithMetrics(m))
		s.serveMetrics(cfg.Metrics.Addr, reg)
	}

	s.client, err = webhdfs.New(cfg.Gateway.Host, cfg.Gateway.Port, cfg.Gateway.User, opts...)
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("metrics server stopped")
		}
	}()
	s.log.WithField("addr", addr).Info("serving metrics")
}

func (s *session) close() {
	if s == nil || s.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.metrics.Shutdown(ctx)
}
