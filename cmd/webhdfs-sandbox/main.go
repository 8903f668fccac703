// Command webhdfs-sandbox serves an in-memory WebHDFS gateway for local
// development, with optional latency and failure injection.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Ratio1/webhdfs_sdk_go/internal/devseed"
	"github.com/Ratio1/webhdfs_sdk_go/internal/logging"
	"github.com/Ratio1/webhdfs_sdk_go/pkg/webhdfs/mock"
)

type failConfig struct {
	rate float64
	code int
}

func main() {
	app := &cli.App{
		Name:  "webhdfs-sandbox",
		Usage: "serve an in-memory WebHDFS gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":9870", Usage: "listen address"},
			&cli.StringFlag{Name: "seed", Usage: "YAML or JSON seed file with files and dirs"},
			&cli.IntFlag{Name: "small-file", Usage: "answer OPEN directly for files up to this many bytes"},
			&cli.DurationFlag{Name: "latency", Usage: "artificial latency to inject per request"},
			&cli.StringFlag{Name: "fail", Usage: "failure injection (rate=<float>,code=<httpStatus>)"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger, err := logging.New(logging.Config{Level: c.String("log-level"), Output: c.App.ErrWriter})
	if err != nil {
		return err
	}

	var opts []mock.Option
	if n := c.Int("small-file"); n > 0 {
		opts = append(opts, mock.WithSmallFileThreshold(n))
	}
	gw := mock.New(opts...)
	if path := c.String("seed"); path != "" {
		seed, err := devseed.Load(path)
		if err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
		if err := gw.SeedDirs(seed.Dirs...); err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
		if err := gw.Seed(seed.Files); err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
		logger.WithField("files", len(seed.Files)).Info("seed applied")
	}

	failCfg, err := parseFailConfig(c.String("fail"))
	if err != nil {
		return fmt.Errorf("parse fail flag: %w", err)
	}

	addr := c.String("addr")
	server := &http.Server{
		Addr:              addr,
		Handler:           withMiddleware(logger, c.Duration("latency"), failCfg, gw),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithField("addr", addr).Info("webhdfs-sandbox listening")
	printExports(c.App.Writer, addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func printExports(w io.Writer, addr string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, "9870"
	}
	if host == "" {
		host = "localhost"
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "export WEBHDFS_MODE=http")
	fmt.Fprintf(w, "export WEBHDFS_HOST=%s\n", host)
	fmt.Fprintf(w, "export WEBHDFS_PORT=%s\n", port)
	fmt.Fprintln(w)
}

func withMiddleware(log logrus.FieldLogger, delay time.Duration, failCfg failConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"op":     r.URL.Query().Get("op"),
		}).Debug("exec request")
		if delay > 0 {
			time.Sleep(delay)
		}
		if failCfg.rate > 0 && rand.Float64() < failCfg.rate {
			status := failCfg.code
			if status == 0 {
				status = http.StatusInternalServerError
			}
			http.Error(w, "failure injected", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseFailConfig(raw string) (failConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return failConfig{}, nil
	}
	cfg := failConfig{code: http.StatusInternalServerError}
	parts := strings.Split(raw, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keyVal := strings.SplitN(part, "=", 2)
		if len(keyVal) != 2 {
			return failConfig{}, fmt.Errorf("invalid fail segment %q", part)
		}
		switch strings.TrimSpace(keyVal[0]) {
		case "rate":
			val, err := strconv.ParseFloat(strings.TrimSpace(keyVal[1]), 64)
			if err != nil {
				return failConfig{}, err
			}
			if val < 0 || val > 1 {
				return failConfig{}, fmt.Errorf("fail rate %v outside [0,1]", val)
			}
			cfg.rate = val
		case "code":
			val, err := strconv.Atoi(strings.TrimSpace(keyVal[1]))
			if err != nil {
				return failConfig{}, err
			}
			cfg.code = val
		default:
			return failConfig{}, fmt.Errorf("unknown fail key %q", keyVal[0])
		}
	}
	return cfg, nil
}
