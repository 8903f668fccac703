package httpx

import (
	"net/http"
	"net/url"
)

// Response is an HTTP response whose body has already been read and closed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the address that produced this response, after any redirects.
	URL *url.URL
}

// Location resolves the redirect target of r.
func (r *Response) Location() (*url.URL, error) {
	return ResolveLocation(r.URL, r.Header)
}

// IsRedirect reports whether r is a 307 Temporary Redirect.
func (r *Response) IsRedirect() bool {
	return r.StatusCode == http.StatusTemporaryRedirect
}

