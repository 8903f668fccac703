package webhdfs

import (
	"net/url"
	"strings"

	"github.com/Ratio1/webhdfs_sdk_go/internal/webhdfsapi"
)

// BuildURL returns the initiating URL of op on name, resolved against dir:
//
//	{endpoint}/webhdfs/v1{path}?user.name={user}&op={OP}[&overwrite=true]
//
// CREATE always carries overwrite=true. BuildURL performs no I/O.
func BuildURL(ep Endpoint, dir, name string, op Operation) string {
	return buildURL(ep, Join(dir, name), op)
}

func buildURL(ep Endpoint, remotePath string, op Operation) string {
	var b strings.Builder
	b.WriteString(ep.BaseURL())
	b.WriteString(webhdfsapi.PathPrefix)
	b.WriteString((&url.URL{Path: remotePath}).EscapedPath())
	b.WriteString("?user.name=")
	b.WriteString(url.QueryEscape(ep.User))
	b.WriteString("&op=")
	b.WriteString(string(op))
	if op == OpCreate {
		b.WriteString("&overwrite=true")
	}
	return b.String()
}
