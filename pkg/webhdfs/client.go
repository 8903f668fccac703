package webhdfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/Ratio1/webhdfs_sdk_go/internal/httpx"
	"github.com/Ratio1/webhdfs_sdk_go/internal/webhdfsapi"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	httpOpts  []httpx.Option
	log       logrus.FieldLogger
	reporters []Reporter
	fs        afero.Fs
	localDir  string
}

// WithHTTPClient sets the underlying HTTP client, e.g. one with a custom
// transport.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, httpx.WithHTTPClient(h))
	}
}

// WithHeaders adds default headers to every request.
func WithHeaders(h http.Header) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, httpx.WithHeaders(h))
	}
}

// WithTimeout bounds each HTTP request. The default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, httpx.WithTimeout(d))
	}
}

// WithLogger sets the logger used for request logs and, unless WithReporter
// is given, for results.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithReporter adds a Reporter. Reporters are called in the order given.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporters = append(o.reporters, r)
		}
	}
}

// WithMetrics records every result in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.reporters = append(o.reporters, m)
		}
	}
}

// WithLocalFs sets the local filesystem. The default is the OS filesystem.
func WithLocalFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLocalDir sets the initial local working directory.
func WithLocalDir(dir string) Option {
	return func(o *options) {
		o.localDir = dir
	}
}

// Client is a session against one gateway. It tracks the remote working
// directory, which only Cd changes.
type Client struct {
	endpoint Endpoint
	http     *httpx.Client
	local    *Local
	log      logrus.FieldLogger
	reporter Reporter
	cwd      string
}

// New constructs a client for host:port acting as user.
func New(host string, port int, user string, opts ...Option) (*Client, error) {
	return NewWithEndpoint(Endpoint{Host: host, Port: port, User: user}, opts...)
}

// NewWithEndpoint constructs a client for ep.
func NewWithEndpoint(ep Endpoint, opts ...Option) (*Client, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.log = l
	}
	log := o.log.WithField("gateway", ep.BaseURL())

	var reporter Reporter = LogReporter{Log: log}
	if len(o.reporters) > 0 {
		reporter = MultiReporter(o.reporters)
	}

	httpOpts := append([]httpx.Option{httpx.WithLogger(log)}, o.httpOpts...)
	return &Client{
		endpoint: ep,
		http:     httpx.NewClient(httpOpts...),
		local:    NewLocal(o.fs, o.localDir),
		log:      log,
		reporter: reporter,
		cwd:      "/",
	}, nil
}

// Endpoint returns the gateway the client talks to.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Pwd returns the remote working directory.
func (c *Client) Pwd() string {
	return c.cwd
}

// LocalDir returns the local working directory.
func (c *Client) LocalDir() string {
	return c.local.Dir()
}

// Cd changes the remote working directory. ParentDir moves to the parent,
// staying at "/" on the root; any other name is joined to the current
// directory. Cd performs no request.
func (c *Client) Cd(name string) string {
	if name == ParentDir {
		c.cwd = Parent(c.cwd)
	} else {
		c.cwd = Join(c.cwd, name)
	}
	c.log.WithField("cwd", c.cwd).Debug("remote directory changed")
	return c.cwd
}

// Mkdir creates name, with parents, under the working directory. It returns
// the gateway's boolean reply.
func (c *Client) Mkdir(ctx context.Context, name string) (bool, error) {
	res := c.begin(OpMkdirs, name)
	ok, err := c.booleanOp(ctx, OpMkdirs, http.MethodPut, name)
	res.Boolean = ok
	return ok, c.finish(res, err)
}

// Delete removes the file or empty directory name under the working
// directory. It returns the gateway's boolean reply: false when nothing was
// deleted.
func (c *Client) Delete(ctx context.Context, name string) (bool, error) {
	res := c.begin(OpDelete, name)
	ok, err := c.booleanOp(ctx, OpDelete, http.MethodDelete, name)
	res.Boolean = ok
	return ok, c.finish(res, err)
}

func (c *Client) booleanOp(ctx context.Context, op Operation, method, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, fmt.Errorf("%w: %s", ErrEmptyName, op)
	}
	resp, err := c.call(ctx, op, name, PhaseInitiate, &httpx.Request{
		Method: method,
		URL:    buildURL(c.endpoint, Join(c.cwd, name), op),
	})
	if err != nil {
		return false, err
	}
	if resp.StatusCode != http.StatusOK {
		return false, newRemoteError(op, name, PhaseInitiate, resp)
	}
	ok, err := webhdfsapi.DecodeBoolean(resp.Body)
	if err != nil {
		// A 200 without a usable body still means the gateway accepted it.
		c.log.WithError(err).WithField("op", string(op)).Debug("boolean reply missing")
		return true, nil
	}
	return ok, nil
}

// Put uploads the local file at localPath into the working directory under
// its base name, overwriting any existing file. It returns the bytes sent.
func (c *Client) Put(ctx context.Context, localPath string) (int64, error) {
	name := filepath.Base(localPath)
	res := c.begin(OpCreate, name)
	res.Local = localPath
	if strings.TrimSpace(localPath) == "" {
		return 0, c.finish(res, fmt.Errorf("%w: local path", ErrEmptyName))
	}
	n, err := c.send(ctx, createTransfer, name, Join(c.cwd, name), localPath)
	res.Bytes = n
	return n, c.finish(res, err)
}

// Get downloads name from the working directory into localPath, creating or
// truncating it. It returns the bytes written.
func (c *Client) Get(ctx context.Context, name, localPath string) (int64, error) {
	res := c.begin(OpOpen, name)
	res.Local = localPath
	if strings.TrimSpace(name) == "" || strings.TrimSpace(localPath) == "" {
		return 0, c.finish(res, fmt.Errorf("%w: remote and local names", ErrEmptyName))
	}
	n, err := c.receive(ctx, name, Join(c.cwd, name), localPath)
	res.Bytes = n
	return n, c.finish(res, err)
}

// Append appends the content of the local file at localPath to name in the
// working directory. It returns the bytes sent.
func (c *Client) Append(ctx context.Context, localPath, name string) (int64, error) {
	res := c.begin(OpAppend, name)
	res.Local = localPath
	if strings.TrimSpace(name) == "" || strings.TrimSpace(localPath) == "" {
		return 0, c.finish(res, fmt.Errorf("%w: remote and local names", ErrEmptyName))
	}
	n, err := c.send(ctx, appendTransfer, name, Join(c.cwd, name), localPath)
	res.Bytes = n
	return n, c.finish(res, err)
}

// List returns the entry names of the working directory.
func (c *Client) List(ctx context.Context) ([]string, error) {
	statuses, err := c.ListStatus(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.PathSuffix)
	}
	return names, nil
}

// ListStatus returns the entries of the working directory. A reply without
// the FileStatuses.FileStatus array is an error wrapping
// ErrMissingFileStatuses.
func (c *Client) ListStatus(ctx context.Context) ([]FileStatus, error) {
	dir := c.cwd
	res := c.begin(OpListStatus, dir)
	statuses, err := c.listStatus(ctx, dir)
	res.Entries = len(statuses)
	return statuses, c.finish(res, err)
}

func (c *Client) listStatus(ctx context.Context, dir string) ([]FileStatus, error) {
	resp, err := c.call(ctx, OpListStatus, dir, PhaseInitiate, &httpx.Request{
		Method: http.MethodGet,
		URL:    buildURL(c.endpoint, dir, OpListStatus),
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newRemoteError(OpListStatus, dir, PhaseInitiate, resp)
	}
	statuses, err := webhdfsapi.DecodeFileStatuses(resp.Body)
	if err != nil {
		remoteErr := newRemoteError(OpListStatus, dir, PhaseInitiate, resp)
		remoteErr.Err = err
		return nil, remoteErr
	}
	return statuses, nil
}

// LocalList returns the sorted entry names of the local directory dir, "."
// meaning the local working directory. On failure it returns an empty list
// together with a *LocalIOError.
func (c *Client) LocalList(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	res := c.begin(OpLocalList, "")
	res.Local = dir
	names, err := c.local.List(dir)
	if err != nil {
		return []string{}, c.finish(res, &LocalIOError{Op: OpLocalList, Path: dir, Err: err})
	}
	res.Entries = len(names)
	return names, c.finish(res, nil)
}

// LocalCd changes the local working directory to dir, creating it when it
// does not exist.
func (c *Client) LocalCd(dir string) error {
	res := c.begin(OpLocalCd, "")
	res.Local = dir
	if strings.TrimSpace(dir) == "" {
		return c.finish(res, fmt.Errorf("%w: local directory", ErrEmptyName))
	}
	created, err := c.local.ChangeDir(dir)
	if err != nil {
		return c.finish(res, &LocalIOError{Op: OpLocalCd, Path: dir, Err: err})
	}
	res.Created = created
	return c.finish(res, nil)
}

type pending struct {
	*Result
	start time.Time
}

func (c *Client) begin(op Operation, target string) pending {
	return pending{Result: &Result{Op: op, Target: target}, start: time.Now()}
}

// finish completes the result, reports it and returns err unchanged.
func (c *Client) finish(p pending, err error) error {
	r := p.Result
	r.Duration = time.Since(p.start)
	r.Kind = Classify(err)
	r.Err = err
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		r.StatusCode = remoteErr.StatusCode
	}
	if !r.OK() {
		r.Bytes = 0
	}
	c.reporter.Report(r)
	return err
}
