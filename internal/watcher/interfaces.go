package watcher

import (
	"context"

	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
	"github.com/samvad-hq/samvad-jobs-client/pkg/publishers"
)

// JobSource lists the full set of postings.
type JobSource interface {
	ListAllJobs(ctx context.Context, params jobservice.QueryParams) ([]jobservice.JobPosting, error)
}

// SalaryPredictor estimates a salary for a posting.
type SalaryPredictor interface {
	PredictSalary(ctx context.Context, jobInfo jobservice.SalaryPredictionRequest) (jobservice.PredictionResult, error)
}

// EventPublisher publishes events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which postings were already published and their fingerprint.
type Deduper interface {
	SeenJob(id string) (fingerprint string, seen bool, err error)
	MarkJob(id, fingerprint string) error
}

// Logger is the structured logging surface the watcher relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}
