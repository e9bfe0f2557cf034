package httpclient

import (
	"context"
	"net/url"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Request describes a single call relative to the client's base URL.
// PathParams fill `{name}` placeholders in Path and are path-escaped.
// An absolute Path bypasses the base URL.
type Request struct {
	Method     string
	Path       string
	PathParams map[string]string
	Query      url.Values
	Headers    map[string]string
	Body       any
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
