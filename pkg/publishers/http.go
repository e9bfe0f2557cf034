package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-jobs-client/pkg/httpclient"
)

const (
	headerJobID       = "X-Job-Id"
	headerEventSource = "X-Event-Source"
)

// webhookPublisher posts each event as JSON to a fixed URL.
type webhookPublisher struct {
	id     string
	method string
	url    string
	client httpclient.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := httpclient.NewRestyClient(httpclient.Config{
		BaseURL:   cfg.HTTP.URL,
		Timeout:   time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		Headers:   cfg.HTTP.Headers,
		Retries:   cfg.HTTP.MaxRetries,
		RetryWait: time.Duration(cfg.HTTP.RetryWaitMs) * time.Millisecond,
	})
	return &webhookPublisher{
		id:     cfg.ID,
		method: cfg.HTTP.Method,
		url:    cfg.HTTP.URL,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (h *webhookPublisher) ID() string   { return h.id }
func (h *webhookPublisher) Type() string { return TypeHTTP }

func (h *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.Do(ctx, httpclient.Request{
		Method: h.method,
		Path:   h.url,
		Headers: map[string]string{
			headerJobID:       evt.JobID,
			headerEventSource: evt.Source,
		},
		Body: evt,
	})
	if err != nil {
		return fmt.Errorf("deliver job %s: %w", evt.JobID, err)
	}
	h.log.DebugObj("webhook delivered job event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"job_id":       evt.JobID,
		"status":       resp.StatusCode(),
	})
	return nil
}
