// Package prefetch accumulates distinct records across sequential page
// fetches to serve bulk-select requests that exceed what is loaded.
package prefetch

import (
	"context"
	"time"

	"github.com/Yash3470/art-table/pkg/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for bulk prefetch operations.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arttable_prefetch_pages_fetched_total",
		Help: "Total pages fetched by the incremental prefetcher",
	})

	duplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arttable_prefetch_duplicates_total",
		Help: "Records discarded because their identity was already cached",
	})

	cachedRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arttable_prefetch_cached_records",
		Help: "Distinct records currently held by the prefetch cache",
	})
)

// PageSource fetches a single 1-based page of the collection.
type PageSource interface {
	FetchPage(ctx context.Context, page int) (*source.Page, error)
}

// Fetcher drives sequential page fetches and accumulates distinct records
// in arrival order. The accumulator is append-only within a session and is
// reused by later requests, so already-fetched pages are never refetched.
//
// Fetcher is not safe for concurrent use; the session dispatcher serializes
// calls to it.
type Fetcher struct {
	source PageSource
	onBusy func(bool)

	seen      map[int64]struct{}
	records   []source.Record
	nextPage  int
	exhausted bool

	logger zerolog.Logger
}

// NewFetcher creates a fetcher over the given page source.
func NewFetcher(src PageSource) *Fetcher {
	return &Fetcher{
		source:   src,
		seen:     make(map[int64]struct{}),
		nextPage: 1,
		logger:   log.With().Str("component", "prefetch").Logger(),
	}
}

// SetBusyFunc installs a hook that is called with true when a multi-page
// fetch starts and false when it ends. The UI uses it as a loading signal.
func (f *Fetcher) SetBusyFunc(fn func(bool)) {
	f.onBusy = fn
}

// Len returns the number of distinct records accumulated so far.
func (f *Fetcher) Len() int {
	return len(f.records)
}

// EnsureAtLeast returns at least n distinct records when the collection has
// that many, fetching pages sequentially from where the last call stopped.
// Pagination metadata from page k decides whether page k+1 is needed, so
// requests are strictly one at a time.
//
// A fetch error aborts the loop and whatever was accumulated is returned;
// the next call resumes from the failed page. The result may be shorter
// than n when the collection is exhausted.
func (f *Fetcher) EnsureAtLeast(ctx context.Context, n int) []source.Record {
	if len(f.records) >= n || f.exhausted {
		return f.snapshot()
	}

	if f.onBusy != nil {
		f.onBusy(true)
		defer f.onBusy(false)
	}

	start := time.Now()
	startPage := f.nextPage

	for len(f.records) < n && !f.exhausted {
		page, err := f.source.FetchPage(ctx, f.nextPage)
		if err != nil {
			f.logger.Warn().
				Err(err).
				Int("page", f.nextPage).
				Int("accumulated", len(f.records)).
				Int("requested", n).
				Msg("Bulk fetch aborted - returning partial results")
			break
		}

		added := 0
		for _, rec := range page.Records {
			if _, dup := f.seen[rec.ID]; dup {
				duplicatesTotal.Inc()
				continue
			}
			f.seen[rec.ID] = struct{}{}
			f.records = append(f.records, rec)
			added++
		}

		pagesFetchedTotal.Inc()
		cachedRecords.Set(float64(len(f.records)))

		f.logger.Debug().
			Int("page", f.nextPage).
			Int("added", added).
			Int("accumulated", len(f.records)).
			Msg("Page accumulated")

		if page.Exhausted() {
			f.exhausted = true
		}
		f.nextPage++
	}

	if f.nextPage > startPage {
		f.logger.Info().
			Int("pages_fetched", f.nextPage-startPage).
			Int("accumulated", len(f.records)).
			Int("requested", n).
			Bool("exhausted", f.exhausted).
			Dur("duration", time.Since(start)).
			Msg("Bulk fetch complete")
	}

	return f.snapshot()
}

// Reset clears the accumulator. Used when the collection endpoint changes.
func (f *Fetcher) Reset() {
	f.seen = make(map[int64]struct{})
	f.records = nil
	f.nextPage = 1
	f.exhausted = false
	cachedRecords.Set(0)
}

// snapshot copies the accumulated records so callers cannot disturb
// the append-only accumulator.
func (f *Fetcher) snapshot() []source.Record {
	out := make([]source.Record, len(f.records))
	copy(out, f.records)
	return out
}
