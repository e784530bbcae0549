// Package selection holds the page-independent selection state and the
// reconciliation logic that keeps it in sync with the visible page.
package selection

import (
	"sync"

	"github.com/Yash3470/art-table/pkg/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var selectionSize = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "arttable_selection_size",
	Help: "Number of records currently in the selection store",
})

// Store is the authoritative mapping of record identity to record. A key
// present means that record is selected globally, regardless of whether it
// is currently visible.
//
// Store is safe for concurrent use. The session dispatcher already
// serializes mutations, so the mutex only matters for callers that
// introduce their own parallelism.
type Store struct {
	mu      sync.RWMutex
	records map[int64]source.Record
}

// NewStore creates an empty selection store.
func NewStore() *Store {
	return &Store{
		records: make(map[int64]source.Record),
	}
}

// Put inserts a record into the selection. Inserting an already selected
// record is a no-op since identity is the key.
func (s *Store) Put(r source.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	selectionSize.Set(float64(len(s.records)))
}

// Delete removes a record identity from the selection.
// Deleting an absent identity is a no-op.
func (s *Store) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	selectionSize.Set(float64(len(s.records)))
}

// Has reports whether the identity is selected.
func (s *Store) Has(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok
}

// Size returns the number of selected records.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns a copy of all selected records.
// The returned slice is a copy; order is not guaranteed.
func (s *Store) Snapshot() []source.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]source.Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	return records
}
