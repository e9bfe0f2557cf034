package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
)

// Event kinds.
const (
	EventNew     = "new"
	EventUpdated = "updated"
)

// Event represents a new or changed job posting published downstream.
type Event struct {
	Kind        string                      `json:"kind"`
	Source      string                      `json:"source"`
	JobID       string                      `json:"job_id"`
	Job         jobservice.JobPosting       `json:"job"`
	Prediction  jobservice.PredictionResult `json:"prediction,omitempty"`
	CollectedAt time.Time                   `json:"collected_at"`
}

// NewEvent constructs an EventNew for the given posting.
func NewEvent(source string, job jobservice.JobPosting, prediction jobservice.PredictionResult) Event {
	return Event{
		Kind:        EventNew,
		Source:      source,
		JobID:       job.ID(),
		Job:         job,
		Prediction:  prediction,
		CollectedAt: time.Now().UTC(),
	}
}
