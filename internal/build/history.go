package build

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var historyBucket = []byte("builds")

// Record is one build's observability entry, persisted to history.db.
// It is purely an observability addition (SPEC_FULL.md §4.6): it never
// gates the skip-recompilation decision, which is governed solely by the
// `.hash` sidecar in cache.go.
type Record struct {
	SourcePath string        `json:"source_path"`
	SourceHash string        `json:"source_hash"`
	Duration   time.Duration `json:"duration_ns"`
	ZigVersion string        `json:"zig_version"`
	Success    bool          `json:"success"`
	Timestamp  time.Time     `json:"timestamp"`
}

// History wraps a bbolt database recording build records at
// <cache_dir>/history.db.
type History struct {
	db *bbolt.DB
}

// OpenHistory opens (creating if absent) the history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("build: open history.db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build: init history.db: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error { return h.db.Close() }

// Append records one build outcome, keyed by a monotonically increasing
// bucket sequence number so history.db preserves chronological order.
func (h *History) Append(rec Record) error {
	return h.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(historyBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(itob(seq), payload)
	})
}

// ForSource returns every recorded build of sourcePath, oldest first.
func (h *History) ForSource(sourcePath string) ([]Record, error) {
	var out []Record
	err := h.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(historyBucket)
		return b.ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.SourcePath == sourcePath {
				out = append(out, rec)
			}
			return nil
		})
	})
	return out, err
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
