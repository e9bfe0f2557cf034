package jobservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/samvad-hq/samvad-jobs-client/pkg/httpclient"
)

const (
	pathJobPostings   = "job_postings/"
	pathAllData       = "job_postings/all_data/"
	pathJobDetail     = "job_postings/{id}/"
	pathPredictSalary = "job_postings/predict_salary/"

	opListJobs      = "list_jobs"
	opListAllJobs   = "list_all_jobs"
	opGetJobDetail  = "get_job_detail"
	opPredictSalary = "predict_salary"
)

// DecodeError reports a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Client exposes the job postings backend as four domain operations.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	transport httpclient.Client
	log       Logger
}

// New builds a client over a resty transport configured from cfg.
func New(cfg httpclient.Config, log Logger) *Client {
	return &Client{
		transport: httpclient.NewRestyClient(cfg),
		log:       ensureLogger(log),
	}
}

// NewWithTransport builds a client over an injected transport.
func NewWithTransport(transport httpclient.Client, log Logger) (*Client, error) {
	if transport == nil {
		return nil, errors.New("jobservice: transport must not be nil")
	}
	return &Client{transport: transport, log: ensureLogger(log)}, nil
}

// ListJobs fetches the (usually paginated) job postings listing.
// The decoded body is returned as-is; see DecodePage for the envelope.
func (c *Client) ListJobs(ctx context.Context, params QueryParams) (any, error) {
	var out any
	err := c.call(ctx, opListJobs, httpclient.Request{
		Method: http.MethodGet,
		Path:   pathJobPostings,
		Query:  params.Values(),
	}, &out)
	if err != nil {
		c.log.ErrorObj("list job postings failed", "job_service_error", map[string]any{
			"operation": opListJobs,
			"params":    params,
			"error":     err.Error(),
		})
		return nil, err
	}
	return out, nil
}

// ListAllJobs fetches the unpaginated result set. The whole body is buffered.
func (c *Client) ListAllJobs(ctx context.Context, params QueryParams) ([]JobPosting, error) {
	var out []JobPosting
	err := c.call(ctx, opListAllJobs, httpclient.Request{
		Method: http.MethodGet,
		Path:   pathAllData,
		Query:  params.Values(),
	}, &out)
	if err != nil {
		c.log.ErrorObj("list all job postings failed", "job_service_error", map[string]any{
			"operation": opListAllJobs,
			"params":    params,
			"error":     err.Error(),
		})
		return nil, err
	}
	return out, nil
}

// GetJobDetail fetches a single posting by id.
func (c *Client) GetJobDetail(ctx context.Context, id JobID) (JobPosting, error) {
	var out JobPosting
	err := c.call(ctx, opGetJobDetail, httpclient.Request{
		Method:     http.MethodGet,
		Path:       pathJobDetail,
		PathParams: map[string]string{"id": id.String()},
	}, &out)
	if err != nil {
		c.log.ErrorObj("get job posting detail failed", "job_service_error", map[string]any{
			"operation": opGetJobDetail,
			"job_id":    id.String(),
			"error":     err.Error(),
		})
		return nil, err
	}
	return out, nil
}

// PredictSalary posts jobInfo to the prediction endpoint and returns its answer untouched.
func (c *Client) PredictSalary(ctx context.Context, jobInfo SalaryPredictionRequest) (PredictionResult, error) {
	var out PredictionResult
	err := c.call(ctx, opPredictSalary, httpclient.Request{
		Method: http.MethodPost,
		Path:   pathPredictSalary,
		Body:   jobInfo,
	}, &out)
	if err != nil {
		c.log.ErrorObj("predict salary failed", "job_service_error", map[string]any{
			"operation": opPredictSalary,
			"error":     err.Error(),
		})
		return nil, err
	}
	return out, nil
}

// call issues req and decodes the body into out. Transport errors are returned unchanged.
func (c *Client) call(ctx context.Context, op string, req httpclient.Request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return err
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return &httpclient.StatusError{
			Method:     req.Method,
			URL:        req.Path,
			StatusCode: code,
			Body:       resp.Body(),
		}
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	c.log.DebugObj("job service call completed", "job_service_call", map[string]any{
		"operation":   op,
		"status":      resp.StatusCode(),
		"body_length": len(body),
	})
	return nil
}
