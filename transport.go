package launchkey

import (
	"context"
	"net/http"
	"net/url"

	"github.com/WPPlugins/launchkey/internal/api"
)

// Request describes one service call issued through a Transport. Query
// parameters always travel on the URL; Form and Body are mutually
// exclusive request bodies (form-encoded and raw JSON respectively).
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Body   []byte
}

// Response is the raw outcome of a transported request.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport delivers requests to the service. Implementations return a
// Response for any exchange that produced one, whatever the status code,
// and a non-nil error only for failures that never produced a response
// (network faults, cancellation). The client maps status categories to
// SDK errors, so transports carry no protocol knowledge.
type Transport interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// httpTransport adapts the internal API client to the Transport interface.
type httpTransport struct {
	api *api.Client
}

func newHTTPTransport(baseURL string, httpClient *http.Client) Transport {
	var opts []api.Option
	if baseURL != "" {
		opts = append(opts, api.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, api.WithHTTPClient(httpClient))
	}
	return &httpTransport{api: api.New(opts...)}
}

func (t *httpTransport) Send(ctx context.Context, req Request) (*Response, error) {
	resp, err := t.api.Send(ctx, api.Request{
		Method: req.Method,
		Path:   req.Path,
		Query:  req.Query,
		Form:   req.Form,
		Body:   req.Body,
	})
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}
