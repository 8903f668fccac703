package webhdfs

import (
	"path"
	"strings"
)

// ParentDir is the name that moves Cd one level up.
const ParentDir = ".."

// Join resolves name against dir for a single request. Absolute names are
// used as given; an empty name resolves to dir itself. The result is clean
// and always starts with "/".
func Join(dir, name string) string {
	if strings.HasPrefix(name, "/") {
		return clean(name)
	}
	return clean(path.Join(clean(dir), name))
}

// Parent returns the parent of dir. The root is its own parent.
func Parent(dir string) string {
	return path.Dir(clean(dir))
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
