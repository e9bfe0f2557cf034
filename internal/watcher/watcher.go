package watcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
	"github.com/samvad-hq/samvad-jobs-client/pkg/publishers"
)

// SourceAllData tags events produced from the unpaginated listing.
const SourceAllData = "all_data"

// Result summarises a single pass. Fresh counts new and updated postings.
type Result struct {
	Fetched   int `json:"fetched"`
	Fresh     int `json:"fresh"`
	Updated   int `json:"updated"`
	Published int `json:"published"`
	Unrouted  int `json:"unrouted"`
	Failed    int `json:"failed"`
}

// Options tunes a Service.
type Options struct {
	// Params filter the listing on every pass.
	Params jobservice.QueryParams
	// RepublishChanged publishes a seen posting again when its content changed.
	RepublishChanged bool
}

// Service publishes postings that appeared, or changed, since the previous pass.
type Service struct {
	source    JobSource
	enricher  *Enricher
	publisher EventPublisher
	deduper   Deduper
	opts      Options
	log       Logger
}

// candidate is a posting selected for publishing.
type candidate struct {
	job         jobservice.JobPosting
	id          string
	fingerprint string
	kind        string
}

// NewService wires a watcher. enricher and deduper may be nil.
func NewService(source JobSource, enricher *Enricher, publisher EventPublisher, deduper Deduper, opts Options, log Logger) *Service {
	if log == nil {
		log = noopLogger{}
	}
	return &Service{
		source:    source,
		enricher:  enricher,
		publisher: publisher,
		deduper:   deduper,
		opts:      opts,
		log:       log,
	}
}

// Run executes one pass: fetch, select, enrich, publish, mark.
func (s *Service) Run(ctx context.Context) (Result, error) {
	if s == nil || s.source == nil || s.publisher == nil {
		return Result{}, fmt.Errorf("watcher service is not initialized")
	}

	jobs, err := s.source.ListAllJobs(ctx, s.opts.Params)
	if err != nil {
		return Result{}, fmt.Errorf("fetch all job postings: %w", err)
	}

	fresh := s.selectJobs(jobs)
	res := Result{Fetched: len(jobs), Fresh: len(fresh)}
	for _, c := range fresh {
		if c.kind == publishers.EventUpdated {
			res.Updated++
		}
	}

	var errs []error
	for _, c := range fresh {
		if ctx.Err() != nil {
			s.log.InfoObj("watch pass interrupted", "watch_progress", res)
			break
		}

		routed, err := s.publish(ctx, c)
		switch {
		case err != nil:
			res.Failed++
			errs = append(errs, err)
			s.log.ErrorObj("job publish failed", "job_error", map[string]any{
				"job_id": c.id,
				"kind":   c.kind,
				"error":  err.Error(),
			})
		case routed:
			res.Published++
		default:
			res.Unrouted++
		}
	}
	return res, errors.Join(errs...)
}

// publish sends one candidate and records it. routed is false when no
// publisher route matched; the posting is still recorded so it is not retried.
func (s *Service) publish(ctx context.Context, c candidate) (routed bool, err error) {
	evt := publishers.NewEvent(SourceAllData, c.job, s.enricher.Predict(ctx, c.job))
	evt.Kind = c.kind

	delivered, err := s.publisher.Publish(ctx, evt)
	switch {
	case delivered == 0 && err != nil:
		return false, fmt.Errorf("publish job %s: %w", c.id, err)
	case delivered == 0:
		s.log.DebugObj("job matched no publisher route", "job_id", c.id)
	case err != nil:
		s.log.WarnObj("job partially published", "job_publish_partial", map[string]any{
			"job_id":    c.id,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}

	if s.deduper != nil {
		if err := s.deduper.MarkJob(c.id, c.fingerprint); err != nil {
			return false, fmt.Errorf("mark job %s seen: %w", c.id, err)
		}
	}
	return delivered > 0, nil
}

// selectJobs drops postings without an id and repeats within the batch, then
// keeps unseen postings and, with RepublishChanged, seen ones whose content
// changed. A lookup failure keeps the posting so it is not lost.
func (s *Service) selectJobs(jobs []jobservice.JobPosting) []candidate {
	out := make([]candidate, 0, len(jobs))
	batch := make(map[string]struct{}, len(jobs))

	for _, job := range jobs {
		id := job.ID()
		if id == "" {
			s.log.WarnObj("job posting without id skipped", "job_posting", job)
			continue
		}
		if _, dup := batch[id]; dup {
			continue
		}
		batch[id] = struct{}{}

		c := candidate{job: job, id: id, fingerprint: job.Fingerprint(), kind: publishers.EventNew}
		if s.deduper != nil {
			stored, seen, err := s.deduper.SeenJob(id)
			switch {
			case err != nil:
				s.log.WarnObj("job dedupe lookup failed", "dedupe_error", map[string]any{
					"job_id": id,
					"error":  err.Error(),
				})
			case !seen:
			case !s.opts.RepublishChanged || stored == "" || stored == c.fingerprint:
				continue
			default:
				c.kind = publishers.EventUpdated
			}
		}
		out = append(out, c)
	}
	return out
}
