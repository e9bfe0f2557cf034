package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-jobs-client/internal/config"
	"github.com/samvad-hq/samvad-jobs-client/internal/logger"
	"github.com/samvad-hq/samvad-jobs-client/internal/storage"
	"github.com/samvad-hq/samvad-jobs-client/internal/watcher"
	"github.com/samvad-hq/samvad-jobs-client/pkg/jobservice"
	"github.com/samvad-hq/samvad-jobs-client/pkg/publishers"
)

// Watcher is the job watcher runtime. It owns the polling loop, the
// publisher fanout and the seen-job store.
type Watcher struct {
	cfg      *config.Config
	fanout   *publishers.Fanout
	service  *watcher.Service
	interval time.Duration
	log      logger.Logger
	store    storage.Store
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := NewJobClient(cfg, log)

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		JobTTL:          cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"job_ttl_seconds":          int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var enricher *watcher.Enricher
	if cfg.WatchPredict {
		enricher = watcher.NewEnricher(client, log)
	}

	return &Watcher{
		cfg:      cfg,
		fanout:   fanout,
		service: watcher.NewService(client, enricher, fanout, store, watcher.Options{
			Params:           watchParams(cfg),
			RepublishChanged: cfg.WatchRepublishChanged,
		}, log),
		interval: cfg.WatchInterval,
		log:      log,
		store:    store,
	}, nil
}

// NewJobClient builds the backend client from configuration.
func NewJobClient(cfg *config.Config, log logger.Logger) *jobservice.Client {
	return jobservice.New(TransportConfig(cfg), log)
}

// Run starts the watch loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	w.log.InfoObj("watch loop starting", "watcher_state", map[string]any{
		"base_url":         w.cfg.APIBaseURL,
		"publishers_count": w.fanout.Size(),
		"interval":         w.interval.String(),
		"predict":          w.cfg.WatchPredict,
		"republish":        w.cfg.WatchRepublishChanged,
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial watch pass failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watch loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled watch pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single watch pass.
func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	res, err := w.service.Run(ctx)

	tracked, countErr := w.store.Count()
	if countErr != nil {
		err = errors.Join(err, fmt.Errorf("count tracked jobs: %w", countErr))
	}
	w.log.InfoObj("watch pass completed", "watch_meta", map[string]any{
		"fetched":      res.Fetched,
		"fresh":        res.Fresh,
		"updated":      res.Updated,
		"published":    res.Published,
		"unrouted":     res.Unrouted,
		"failed":       res.Failed,
		"tracked_jobs": tracked,
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return err
}

// close releases the store and publisher connections, logging any errors encountered.
func (w *Watcher) close() {
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publisher close failed", "error", err)
	}
}

func watchParams(cfg *config.Config) jobservice.QueryParams {
	if len(cfg.WatchParams) == 0 {
		return nil
	}
	params := make(jobservice.QueryParams, len(cfg.WatchParams))
	for k, vals := range cfg.WatchParams {
		if len(vals) == 1 {
			params[k] = vals[0]
			continue
		}
		params[k] = append([]string(nil), vals...)
	}
	return params
}
