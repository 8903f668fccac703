package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Ratio1/webhdfs_sdk_go/internal/webhdfsapi"
)

// DataPathPrefix is the datanode root that redirects point at.
const DataPathPrefix = "/data/v1"

const defaultBlockSize = 128 << 20

type entry struct {
	dir     bool
	data    []byte
	owner   string
	modTime time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithSmallFileThreshold makes OPEN answer 200 with the content directly,
// without redirecting, for files of at most n bytes. Zero disables it.
func WithSmallFileThreshold(n int) Option {
	return func(g *Gateway) {
		g.smallFile = n
	}
}

// WithClock overrides the time source used for modification times.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// Gateway is an in-memory WebHDFS gateway for tests and sandboxing. The
// namenode side lives under /webhdfs/v1 and redirects content operations to
// the datanode side under /data/v1 on the same host.
type Gateway struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	smallFile int
	now       func() time.Time
}

// New constructs a gateway holding only the root directory.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		entries: make(map[string]*entry),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.entries["/"] = &entry{dir: true, owner: "hdfs", modTime: g.now()}
	return g
}

// Seed stores files by absolute path, creating parent directories.
func (g *Gateway) Seed(files map[string][]byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for p, data := range files {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("mock webhdfs: seed path %q is not absolute", p)
		}
		p = path.Clean(p)
		if err := g.mkdirAllLocked(path.Dir(p), "hdfs"); err != nil {
			return err
		}
		if e, ok := g.entries[p]; ok && e.dir {
			return fmt.Errorf("mock webhdfs: seed path %q is a directory", p)
		}
		g.entries[p] = &entry{data: append([]byte(nil), data...), owner: "hdfs", modTime: g.now()}
	}
	return nil
}

// SeedDirs creates empty directories, with parents.
func (g *Gateway) SeedDirs(dirs ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, d := range dirs {
		if !strings.HasPrefix(d, "/") {
			return fmt.Errorf("mock webhdfs: seed dir %q is not absolute", d)
		}
		if err := g.mkdirAllLocked(d, "hdfs"); err != nil {
			return err
		}
	}
	return nil
}

// File returns a copy of the content stored at p.
func (g *Gateway) File(p string) ([]byte, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entries[path.Clean(p)]
	if !ok || e.dir {
		return nil, false
	}
	return append([]byte(nil), e.data...), true
}

// IsDir reports whether p is a directory.
func (g *Gateway) IsDir(p string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entries[path.Clean(p)]
	return ok && e.dir
}

// Transport serves requests in process, without a listener.
func (g *Gateway) Transport() http.RoundTripper {
	return roundTripper{h: g}
}

type roundTripper struct {
	h http.Handler
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	in := req.Clone(req.Context())
	if in.Host == "" {
		in.Host = req.URL.Host
	}
	if in.Body == nil {
		in.Body = http.NoBody
	}
	rec := httptest.NewRecorder()
	rt.h.ServeHTTP(rec, in)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, webhdfsapi.PathPrefix):
		g.serveNameNode(w, r, strings.TrimPrefix(r.URL.Path, webhdfsapi.PathPrefix))
	case strings.HasPrefix(r.URL.Path, DataPathPrefix):
		g.serveDataNode(w, r, strings.TrimPrefix(r.URL.Path, DataPathPrefix))
	default:
		http.NotFound(w, r)
	}
}

func (g *Gateway) serveNameNode(w http.ResponseWriter, r *http.Request, p string) {
	q := r.URL.Query()
	user := q.Get("user.name")
	if user == "" {
		writeException(w, http.StatusUnauthorized, "SecurityException", "java.lang.SecurityException", "Failed to obtain user group information: user.name is required")
		return
	}
	p = normalizePath(p)
	op := strings.ToUpper(q.Get("op"))

	if want, ok := opMethods[op]; ok && want != r.Method {
		writeException(w, http.StatusBadRequest, "IllegalArgumentException", "java.lang.IllegalArgumentException",
			fmt.Sprintf("Invalid value for webhdfs parameter \"op\": %s is not a valid %s operation", op, r.Method))
		return
	}

	switch op {
	case webhdfsapi.OpMkdirs:
		g.mkdirs(w, p, user)
	case webhdfsapi.OpDelete:
		g.remove(w, p, q.Get("recursive") == "true")
	case webhdfsapi.OpListStatus:
		g.listStatus(w, p)
	case webhdfsapi.OpCreate:
		g.initiateCreate(w, r, p, q.Get("overwrite") == "true")
	case webhdfsapi.OpAppend:
		g.initiateAppend(w, r, p)
	case webhdfsapi.OpOpen:
		g.initiateOpen(w, r, p)
	default:
		writeException(w, http.StatusBadRequest, "IllegalArgumentException", "java.lang.IllegalArgumentException",
			fmt.Sprintf("Invalid value for webhdfs parameter \"op\": No enum constant %q", op))
	}
}

var opMethods = map[string]string{
	webhdfsapi.OpMkdirs:     http.MethodPut,
	webhdfsapi.OpCreate:     http.MethodPut,
	webhdfsapi.OpOpen:       http.MethodGet,
	webhdfsapi.OpListStatus: http.MethodGet,
	webhdfsapi.OpAppend:     http.MethodPost,
	webhdfsapi.OpDelete:     http.MethodDelete,
}

func (g *Gateway) mkdirs(w http.ResponseWriter, p, user string) {
	g.mu.Lock()
	err := g.mkdirAllLocked(p, user)
	g.mu.Unlock()
	if err != nil {
		writeException(w, http.StatusForbidden, "FileAlreadyExistsException", "org.apache.hadoop.fs.FileAlreadyExistsException", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"boolean": true})
}

func (g *Gateway) remove(w http.ResponseWriter, p string, recursive bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[p]
	if !ok || p == "/" {
		writeJSON(w, http.StatusOK, map[string]bool{"boolean": false})
		return
	}
	children := g.childrenLocked(p)
	if e.dir && len(children) > 0 && !recursive {
		writeException(w, http.StatusForbidden, "PathIsNotEmptyDirectoryException", "org.apache.hadoop.fs.PathIsNotEmptyDirectoryException",
			fmt.Sprintf("`%s is non empty': Directory is not empty", p))
		return
	}
	prefix := p + "/"
	for k := range g.entries {
		if k == p || strings.HasPrefix(k, prefix) {
			delete(g.entries, k)
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"boolean": true})
}

func (g *Gateway) listStatus(w http.ResponseWriter, p string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.entries[p]
	if !ok {
		writeNotFound(w, p)
		return
	}
	resp := webhdfsapi.ListStatusResponse{}
	resp.FileStatuses.FileStatus = []webhdfsapi.FileStatus{}
	if !e.dir {
		resp.FileStatuses.FileStatus = append(resp.FileStatuses.FileStatus, status("", e))
	} else {
		for _, name := range g.childrenLocked(p) {
			resp.FileStatuses.FileStatus = append(resp.FileStatuses.FileStatus, status(name, g.entries[path.Join(p, name)]))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (g *Gateway) initiateCreate(w http.ResponseWriter, r *http.Request, p string, overwrite bool) {
	g.mu.RLock()
	e, ok := g.entries[p]
	g.mu.RUnlock()
	if ok && e.dir {
		writeException(w, http.StatusForbidden, "FileAlreadyExistsException", "org.apache.hadoop.fs.FileAlreadyExistsException",
			fmt.Sprintf("%s already exists as a directory", p))
		return
	}
	if ok && !overwrite {
		writeException(w, http.StatusForbidden, "FileAlreadyExistsException", "org.apache.hadoop.fs.FileAlreadyExistsException",
			fmt.Sprintf("%s for client already exists", p))
		return
	}
	redirect(w, r, p)
}

func (g *Gateway) initiateAppend(w http.ResponseWriter, r *http.Request, p string) {
	g.mu.RLock()
	e, ok := g.entries[p]
	g.mu.RUnlock()
	if !ok || e.dir {
		writeNotFound(w, p)
		return
	}
	redirect(w, r, p)
}

func (g *Gateway) initiateOpen(w http.ResponseWriter, r *http.Request, p string) {
	g.mu.RLock()
	e, ok := g.entries[p]
	var data []byte
	if ok && !e.dir {
		data = append([]byte(nil), e.data...)
	}
	g.mu.RUnlock()
	if !ok || e.dir {
		writeNotFound(w, p)
		return
	}
	if g.smallFile > 0 && len(data) <= g.smallFile {
		writeContent(w, data)
		return
	}
	redirect(w, r, p)
}

func (g *Gateway) serveDataNode(w http.ResponseWriter, r *http.Request, p string) {
	p = normalizePath(p)
	op := strings.ToUpper(r.URL.Query().Get("op"))
	user := r.URL.Query().Get("user.name")

	switch {
	case op == webhdfsapi.OpCreate && r.Method == http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		g.mu.Lock()
		err = g.mkdirAllLocked(path.Dir(p), user)
		if err == nil {
			g.entries[p] = &entry{data: data, owner: user, modTime: g.now()}
		}
		g.mu.Unlock()
		if err != nil {
			writeException(w, http.StatusForbidden, "ParentNotDirectoryException", "org.apache.hadoop.fs.ParentNotDirectoryException", err.Error())
			return
		}
		w.Header().Set("Location", "hdfs://"+r.Host+p)
		w.WriteHeader(http.StatusCreated)
	case op == webhdfsapi.OpAppend && r.Method == http.MethodPost:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		g.mu.Lock()
		e, ok := g.entries[p]
		if ok && !e.dir {
			e.data = append(e.data, data...)
			e.modTime = g.now()
		}
		g.mu.Unlock()
		if !ok || e.dir {
			writeNotFound(w, p)
			return
		}
		w.WriteHeader(http.StatusOK)
	case op == webhdfsapi.OpOpen && r.Method == http.MethodGet:
		data, ok := g.File(p)
		if !ok {
			writeNotFound(w, p)
			return
		}
		writeContent(w, data)
	default:
		http.Error(w, fmt.Sprintf("unsupported datanode request %s op=%s", r.Method, op), http.StatusBadRequest)
	}
}

func (g *Gateway) mkdirAllLocked(p, owner string) error {
	p = normalizePath(p)
	if p == "/" {
		return nil
	}
	if err := g.mkdirAllLocked(path.Dir(p), owner); err != nil {
		return err
	}
	if e, ok := g.entries[p]; ok {
		if !e.dir {
			return fmt.Errorf("%s is not a directory", p)
		}
		return nil
	}
	g.entries[p] = &entry{dir: true, owner: owner, modTime: g.now()}
	return nil
}

func (g *Gateway) childrenLocked(dir string) []string {
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	var names []string
	for k := range g.entries {
		if k == dir || !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if rest != "" && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names
}

func status(name string, e *entry) webhdfsapi.FileStatus {
	s := webhdfsapi.FileStatus{
		AccessTime:       e.modTime.UnixMilli(),
		Group:            "supergroup",
		ModificationTime: e.modTime.UnixMilli(),
		Owner:            e.owner,
		PathSuffix:       name,
	}
	if e.dir {
		s.Type = webhdfsapi.TypeDirectory
		s.Permission = "755"
		s.AccessTime = 0
		return s
	}
	s.Type = webhdfsapi.TypeFile
	s.Permission = "644"
	s.Length = int64(len(e.data))
	s.BlockSize = defaultBlockSize
	s.Replication = 3
	return s
}

// redirect answers 307 with the datanode URL for the same request.
func redirect(w http.ResponseWriter, r *http.Request, p string) {
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	target := url.URL{
		Scheme:   "http",
		Host:     host,
		Path:     DataPathPrefix + p,
		RawQuery: r.URL.RawQuery,
	}
	w.Header().Set("Location", target.String())
	w.WriteHeader(http.StatusTemporaryRedirect)
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeContent(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeNotFound(w http.ResponseWriter, p string) {
	writeException(w, http.StatusNotFound, "FileNotFoundException", "java.io.FileNotFoundException", "File does not exist: "+p)
}

func writeException(w http.ResponseWriter, status int, exception, class, message string) {
	writeJSON(w, status, webhdfsapi.RemoteExceptionResponse{
		RemoteException: webhdfsapi.RemoteException{
			Exception:     exception,
			JavaClassName: class,
			Message:       message,
		},
	})
}
