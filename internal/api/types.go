package api

import "net/url"

// Request describes one API call. Query parameters are always appended to
// the URL; Form and Body are mutually exclusive request bodies (Form wins
// when both are set, which callers never do).
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Body   []byte
}

// Response carries the raw outcome of a request, whatever the status code.
type Response struct {
	StatusCode int
	Body       []byte
}
