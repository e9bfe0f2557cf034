package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/"
	DefaultTimeout = 10 * time.Second

	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Config is the transport configuration. It is copied at construction and never mutated.
// Retries is zero unless a caller opts in; the job API client never retries.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Headers   map[string]string
	Retries   int
	RetryWait time.Duration
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client  *resty.Client
	baseURL string
	timeout time.Duration
	headers map[string]string
}

// NewRestyClient creates a RestyClient bound to cfg.BaseURL. Content-Type is
// always application/json unless cfg.Headers overrides it.
func NewRestyClient(cfg Config) *RestyClient {
	cfg = normalizeConfig(cfg)

	c := newRestyBaseClient(cfg.Timeout)
	c.SetBaseURL(cfg.BaseURL)
	c.SetHeaders(cfg.Headers)
	if cfg.Retries > 0 {
		c.SetRetryCount(cfg.Retries).
			SetRetryWaitTime(cfg.RetryWait).
			SetRetryMaxWaitTime(4 * cfg.RetryWait).
			AddRetryCondition(retryOnServerError)
	}

	return &RestyClient{
		client:  c,
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		headers: cfg.Headers,
	}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// retryOnServerError retries transport failures and 5xx answers.
func retryOnServerError(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
}

func normalizeConfig(cfg Config) Config {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Retries > 0 && cfg.RetryWait <= 0 {
		cfg.RetryWait = 200 * time.Millisecond
	}

	headers := make(map[string]string, len(cfg.Headers)+1)
	headers[headerContentType] = contentTypeJSON
	for k, v := range cfg.Headers {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		headers[http.CanonicalHeaderKey(key)] = v
	}
	cfg.Headers = headers
	return cfg
}

// BaseURL returns the configured base URL.
func (r *RestyClient) BaseURL() string { return r.baseURL }

// Timeout returns the per-call timeout.
func (r *RestyClient) Timeout() time.Duration { return r.timeout }

// Headers returns a copy of the default headers sent with every request.
func (r *RestyClient) Headers() map[string]string {
	out := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		out[k] = v
	}
	return out
}

// Do executes req. Any status outside 2xx is reported as *StatusError.
func (r *RestyClient) Do(ctx context.Context, req Request) (Response, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	rr := r.client.R().SetContext(ctx)
	if len(req.PathParams) > 0 {
		rr.SetPathParams(req.PathParams)
	}
	if len(req.Query) > 0 {
		rr.SetQueryParamsFromValues(req.Query)
	}
	if len(req.Headers) > 0 {
		rr.SetHeaders(req.Headers)
	}
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rr.SetBody(payload)
	}

	resp, err := rr.Execute(method, req.Path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{
			Method:     method,
			URL:        resp.Request.URL,
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
		}
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
