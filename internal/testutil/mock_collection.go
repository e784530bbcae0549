// Package testutil provides testing utilities for the art-table engine.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/Yash3470/art-table/pkg/source"
)

// MockCollection is a configurable paginated collection server for testing.
// It serves the `{ data, pagination }` response shape from an in-memory
// record set and tracks which pages were requested.
type MockCollection struct {
	server *httptest.Server

	mu        sync.RWMutex
	records   []source.Record
	statuses  map[int]int             // page -> forced HTTP status
	overrides map[int][]source.Record // page -> replacement records
	delay     time.Duration

	// Tracking
	RequestCount int
	PageRequests []int
}

// NewMockCollection creates a mock collection server over the given records.
func NewMockCollection(records []source.Record) *MockCollection {
	mock := &MockCollection{
		records:   records,
		statuses:  make(map[int]int),
		overrides: make(map[int][]source.Record),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockCollection) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCollection) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockCollection) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PageRequests = nil
}

// SetStatus forces an HTTP status for requests of a specific page.
func (m *MockCollection) SetStatus(page, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[page] = status
}

// SetPageRecords overrides the records served for a specific page.
// Pagination metadata is unchanged; used to simulate overlapping pages.
func (m *MockCollection) SetPageRecords(page int, records []source.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[page] = records
}

// SetDelay adds a fixed delay before every response.
func (m *MockCollection) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockCollection) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPageRequests returns the requested page numbers in arrival order.
func (m *MockCollection) GetPageRequests() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.PageRequests))
	copy(out, m.PageRequests)
	return out
}

func (m *MockCollection) handle(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	m.mu.Lock()
	m.RequestCount++
	m.PageRequests = append(m.PageRequests, page)
	status := m.statuses[page]
	override, hasOverride := m.overrides[page]
	delay := m.delay
	records := m.records
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if status != 0 {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error": "forced status %d"}`, status)
		return
	}

	total := len(records)
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	var data []source.Record
	if hasOverride {
		data = override
	} else {
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		data = records[start:end]
	}

	resp := source.Page{
		Records: data,
		Pagination: source.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			Total:       total,
		},
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// GenerateRecords builds n records with identities 1..n.
func GenerateRecords(n int) []source.Record {
	records := make([]source.Record, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, source.Record{
			ID:            int64(i),
			Title:         fmt.Sprintf("Artwork %d", i),
			PlaceOfOrigin: "Chicago",
			ArtistDisplay: fmt.Sprintf("Artist %d", i),
			DateStart:     1900 + i%100,
			DateEnd:       1901 + i%100,
		})
	}
	return records
}
