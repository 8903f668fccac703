package webhdfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// Local is the local side of transfers. It keeps its own working directory
// instead of changing the process one, so relative paths resolve against Dir.
type Local struct {
	fs  afero.Fs
	dir string
}

// NewLocal wraps fs with dir as working directory. An empty dir means the
// process working directory, or "/" when that cannot be determined.
func NewLocal(fs afero.Fs, dir string) *Local {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = string(filepath.Separator)
		}
	}
	return &Local{fs: fs, dir: filepath.Clean(dir)}
}

// Dir returns the local working directory.
func (l *Local) Dir() string {
	return l.dir
}

// Resolve turns p into a path on the underlying filesystem.
func (l *Local) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(l.dir, p)
}

// ReadFile returns the whole content of p.
func (l *Local) ReadFile(p string) ([]byte, error) {
	f, err := l.fs.Open(l.Resolve(p))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	return afero.ReadAll(f)
}

// WriteFile creates or truncates p with data.
func (l *Local) WriteFile(p string, data []byte) error {
	f, err := l.fs.OpenFile(l.Resolve(p), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the sorted entry names of dir.
func (l *Local) List(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := afero.ReadDir(l.fs, l.Resolve(dir))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ChangeDir makes dir the working directory, creating it and its parents
// when missing. It reports whether the directory had to be created.
func (l *Local) ChangeDir(dir string) (created bool, err error) {
	target := l.Resolve(dir)
	info, err := l.fs.Stat(target)
	switch {
	case err == nil && !info.IsDir():
		return false, fmt.Errorf("%s is not a directory", dir)
	case err == nil:
	case os.IsNotExist(err):
		if err := l.fs.MkdirAll(target, 0o755); err != nil {
			return false, err
		}
		created = true
	default:
		return false, err
	}
	l.dir = target
	return created, nil
}
