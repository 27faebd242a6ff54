package testrunner

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var scenarioBucket = []byte("scenarios")

// Record is one scenario run's pass/fail outcome, persisted so repeated
// `zythc test` invocations can flag scenarios that flip between runs.
type Record struct {
	Name      string    `json:"name"`
	Passed    bool      `json:"passed"`
	Timestamp time.Time `json:"timestamp"`
}

// History wraps a bbolt database at <cache_dir>/scenario_history.db,
// mirroring internal/build.History's shape for the same reason: an
// embedded key-value store with no server to stand up, grounded on
// `_examples/gooze-dev-gooze`'s own use of a flat report store.
type History struct {
	db *bbolt.DB
}

func OpenHistory(path string) (*History, error) {
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("testrunner: open scenario history: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(scenarioBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("testrunner: init scenario history: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error { return h.db.Close() }

func (h *History) Append(rec Record) error {
	return h.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(scenarioBucket)
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

// ForName returns every recorded run of the named scenario, oldest first.
func (h *History) ForName(name string) ([]Record, error) {
	var out []Record
	err := h.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(scenarioBucket)
		return b.ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.Name == name {
				out = append(out, rec)
			}
			return nil
		})
	})
	return out, err
}

// Flaky reports scenarios whose recorded history contains both a pass
// and a failure, surfaced by the report so a red run can be told apart
// from a scenario that is simply unreliable.
func (h *History) Flaky(names []string) ([]string, error) {
	var flaky []string
	for _, name := range names {
		records, err := h.ForName(name)
		if err != nil {
			return nil, err
		}
		sawPass, sawFail := false, false
		for _, r := range records {
			if r.Passed {
				sawPass = true
			} else {
				sawFail = true
			}
		}
		if sawPass && sawFail {
			flaky = append(flaky, name)
		}
	}
	return flaky, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
