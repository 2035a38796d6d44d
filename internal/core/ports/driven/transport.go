package driven

import (
	"context"
	"net/http"
	"net/url"
)

// Request is a prepared outbound request.
type Request struct {
	Method  string
	URL     string
	Header  http.Header
	Query   url.Values
	Body    []byte
	Cookies []*http.Cookie
}

// Response is the upstream reply reduced to what invokers need.
type Response struct {
	StatusCode int
	Body       string
	Header     http.Header
}

// Transport executes prepared requests.
// TLS and trust configuration are selected when the transport is built,
// never re-negotiated per call. Connection pooling is the transport's concern.
type Transport interface {
	// Execute sends req and returns the reply.
	// A non-nil error means no reply was obtained.
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Execute calls f.
func (f TransportFunc) Execute(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
