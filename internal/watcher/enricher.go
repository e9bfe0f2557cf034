package watcher

import (
	"context"

	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
)

// Enricher attaches a salary prediction to each posting.
type Enricher struct {
	predictor SalaryPredictor
	log       Logger
}

// NewEnricher returns nil when predictor is nil, which disables enrichment.
func NewEnricher(predictor SalaryPredictor, log Logger) *Enricher {
	if predictor == nil {
		return nil
	}
	if log == nil {
		log = noopLogger{}
	}
	return &Enricher{predictor: predictor, log: log}
}

// Predict returns the prediction for job, or nil when the backend could not produce one.
// Failures never block publication of the posting itself.
func (e *Enricher) Predict(ctx context.Context, job jobservice.JobPosting) jobservice.PredictionResult {
	if e == nil {
		return nil
	}

	req := jobservice.PredictionRequestFromPosting(job)
	if len(req) == 0 {
		return nil
	}

	prediction, err := e.predictor.PredictSalary(ctx, req)
	if err != nil {
		e.log.WarnObj("salary prediction skipped", "prediction_error", map[string]any{
			"job_id": job.ID(),
			"error":  err.Error(),
		})
		return nil
	}
	return prediction
}
