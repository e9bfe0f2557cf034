package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store remembers which job postings were published and what they looked like.
// Fingerprints are opaque content hashes; an empty fingerprint is allowed.
type Store interface {
	Close() error
	// SeenJob returns the stored fingerprint for id. seen is false for
	// unknown or expired ids.
	SeenJob(id string) (fingerprint string, seen bool, err error)
	MarkJob(id, fingerprint string) error
	Count() (int, error)
}

// Options controls retention for concrete store implementations.
type Options struct {
	JobTTL          time.Duration
	CleanupInterval time.Duration
}

// Storage backends.
const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"

	defaultJobTTL          = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend. "none" disables dedupe.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.JobTTL <= 0 {
		opts.JobTTL = defaultJobTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore never remembers anything, so every posting looks new.
type noopStore struct{}

func (noopStore) Close() error                         { return nil }
func (noopStore) SeenJob(string) (string, bool, error) { return "", false, nil }
func (noopStore) MarkJob(string, string) error         { return nil }
func (noopStore) Count() (int, error)                  { return 0, nil }
