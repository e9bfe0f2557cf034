package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	jobBucket   = "jobs"
	expiryBytes = 8
)

var errBucketMissing = errors.New("job bucket missing")

// record is the value stored per job id: an 8 byte big-endian unix expiry
// followed by the fingerprint bytes.
type record struct {
	expiresAt   time.Time
	fingerprint string
}

func (r record) encode() []byte {
	buf := make([]byte, expiryBytes+len(r.fingerprint))
	binary.BigEndian.PutUint64(buf, uint64(r.expiresAt.Unix()))
	copy(buf[expiryBytes:], r.fingerprint)
	return buf
}

func decodeRecord(value []byte) (record, bool) {
	if len(value) < expiryBytes {
		return record{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryBytes]))
	if unix <= 0 {
		return record{}, false
	}
	return record{
		expiresAt:   time.Unix(unix, 0),
		fingerprint: string(value[expiryBytes:]),
	}, true
}

// boltStore is a Store backed by a single bbolt bucket keyed by job id.
type boltStore struct {
	db              *bolt.DB
	jobTTL          time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	cleanupMu   sync.Mutex
	lastCleanup atomic.Int64
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(jobBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		jobTTL:          opts.JobTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the database file.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *boltStore) SeenJob(id string) (string, bool, error) {
	if b == nil || b.db == nil {
		return "", false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return "", false, err
	}

	var (
		rec  record
		live bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(jobBucket))
		if bucket == nil {
			return errBucketMissing
		}
		var ok bool
		rec, ok = decodeRecord(bucket.Get([]byte(id)))
		live = ok && rec.expiresAt.After(now)
		return nil
	})
	if err != nil || !live {
		return "", false, err
	}
	return rec.fingerprint, true, nil
}

// MarkJob stores fingerprint for id and restarts its TTL.
func (b *boltStore) MarkJob(id, fingerprint string) error {
	if b == nil || b.db == nil || id == "" {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	value := record{expiresAt: now.Add(b.jobTTL), fingerprint: fingerprint}.encode()
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(jobBucket))
		if bucket == nil {
			return errBucketMissing
		}
		if err := bucket.Put([]byte(id), value); err != nil {
			return fmt.Errorf("mark job %s: %w", id, err)
		}
		return nil
	})
}

// Count returns the number of tracked ids, including expired ones not yet swept.
func (b *boltStore) Count() (int, error) {
	if b == nil || b.db == nil {
		return 0, nil
	}
	var n int
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(jobBucket))
		if bucket == nil {
			return errBucketMissing
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

// maybeCleanupExpired sweeps expired ids at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	due := func() bool {
		return now.Sub(time.Unix(b.lastCleanup.Load(), 0)) >= b.cleanupInterval
	}
	if !due() {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()
	if !due() {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(jobBucket))
		if bucket == nil {
			return errBucketMissing
		}
		// Deleting through the cursor while iterating skips keys, so collect first.
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			if rec, ok := decodeRecord(v); !ok || !rec.expiresAt.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired jobs: %w", err)
	}
	b.lastCleanup.Store(now.Unix())
	return nil
}
