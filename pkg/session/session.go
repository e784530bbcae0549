// Package session sequences user commands onto the selection state.
//
// The UI delivers three commands: a page change, a selection edit for the
// visible page, and a bulk-select request. A Session consumes them one at a
// time so the selection store and the prefetch cache are never mutated
// concurrently.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Yash3470/art-table/pkg/prefetch"
	"github.com/Yash3470/art-table/pkg/selection"
	"github.com/Yash3470/art-table/pkg/source"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var bulkSelectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arttable_bulk_selects_total",
	Help: "Bulk-select requests by outcome",
}, []string{"outcome"}) // "complete", "partial", "rejected"

// Errors returned by session commands.
var (
	// ErrInvalidCount is returned when a bulk-select count is not positive.
	ErrInvalidCount = errors.New("invalid count")

	// ErrBulkInFlight is returned when a bulk-select is requested while a
	// previous one is still running.
	ErrBulkInFlight = errors.New("bulk select already in flight")
)

// Session owns one user's table state: the selection store, the prefetch
// cache and the last loaded page. Commands are serialized; a bulk-select
// issued while another is running is rejected rather than queued.
type Session struct {
	id         uuid.UUID
	mu         sync.Mutex
	src        prefetch.PageSource
	store      *selection.Store
	reconciler *selection.Reconciler
	fetcher    *prefetch.Fetcher
	events     Events

	currentPage *source.Page
	bulkActive  atomic.Bool

	logger zerolog.Logger
}

// New creates a session over the given page source. A nil events sink
// defaults to NopEvents.
func New(src prefetch.PageSource, events Events) *Session {
	if events == nil {
		events = NopEvents{}
	}

	id := uuid.New()
	store := selection.NewStore()
	fetcher := prefetch.NewFetcher(src)
	fetcher.SetBusyFunc(events.Loading)

	return &Session{
		id:         id,
		src:        src,
		store:      store,
		reconciler: selection.NewReconciler(store),
		fetcher:    fetcher,
		events:     events,
		logger:     log.With().Str("component", "session").Str("session_id", id.String()).Logger(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Store returns the selection store.
func (s *Session) Store() *selection.Store {
	return s.store
}

// CurrentPage returns the last successfully loaded page, or nil.
func (s *Session) CurrentPage() *source.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

// Checked returns the checked rows of the current page.
func (s *Session) Checked() []source.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPage == nil {
		return nil
	}
	return s.reconciler.VisibleSelection(s.currentPage.Records)
}

// PageChanged loads the 1-based page n and re-derives the checked rows.
//
// On fetch failure the previous page view is retained, the loading signal
// is cleared and the user is notified; selection state is never touched.
func (s *Session) PageChanged(ctx context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events.Loading(true)
	defer s.events.Loading(false)

	page, err := s.src.FetchPage(ctx, n)
	if err != nil {
		s.logger.Error().Err(err).Int("page", n).Msg("Page load failed")
		s.events.Notify(NoticeError, fmt.Sprintf("failed to load page %d", n))
		return fmt.Errorf("load page %d: %w", n, err)
	}

	s.currentPage = page
	checked := s.reconciler.VisibleSelection(page.Records)
	s.events.PageLoaded(page, checked)

	s.logger.Debug().
		Int("page", n).
		Int("records", len(page.Records)).
		Int("checked", len(checked)).
		Msg("Page loaded")

	return nil
}

// SelectionEdited applies the table's complete checked set for the current
// page. Records checked on other pages stay selected.
func (s *Session) SelectionEdited(newVisible []source.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentPage == nil {
		s.logger.Warn().Msg("Selection edit ignored - no page loaded")
		return
	}

	s.reconciler.ApplyEdit(newVisible, s.currentPage.Records)
	s.events.SelectionChanged(s.store.Size())
}

// BulkSelectRequested selects the first n records of the whole collection
// by fetch order, merged additively into the selection.
//
// n must be positive. A request overlapping a running bulk-select is
// rejected. A fetch failure mid-loop commits whatever was accumulated as a
// partial success.
func (s *Session) BulkSelectRequested(ctx context.Context, n int) error {
	if n <= 0 {
		bulkSelectsTotal.WithLabelValues("rejected").Inc()
		s.logger.Warn().Int("count", n).Msg("Bulk select rejected - invalid count")
		s.events.Notify(NoticeError, fmt.Sprintf("invalid count %d: must be a positive number", n))
		return fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}

	if !s.bulkActive.CompareAndSwap(false, true) {
		bulkSelectsTotal.WithLabelValues("rejected").Inc()
		s.logger.Warn().Int("count", n).Msg("Bulk select rejected - already in flight")
		s.events.Notify(NoticeError, "a bulk select is already running")
		return ErrBulkInFlight
	}
	defer s.bulkActive.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.fetcher.EnsureAtLeast(ctx, n)

	take := n
	if len(records) < take {
		take = len(records)
	}
	for _, rec := range records[:take] {
		s.store.Put(rec)
	}

	total := s.store.Size()
	s.events.SelectionChanged(total)

	// Re-derive the visible checked state for the page on screen.
	if s.currentPage != nil {
		checked := s.reconciler.VisibleSelection(s.currentPage.Records)
		s.events.PageLoaded(s.currentPage, checked)
	}

	if take < n {
		bulkSelectsTotal.WithLabelValues("partial").Inc()
		s.logger.Warn().
			Int("requested", n).
			Int("selected", take).
			Int("total_selected", total).
			Msg("Bulk select partially satisfied")
		s.events.Notify(NoticeWarn,
			fmt.Sprintf("selected %d of %d requested records; %d selected in total", take, n, total))
		return nil
	}

	bulkSelectsTotal.WithLabelValues("complete").Inc()
	s.logger.Info().
		Int("requested", n).
		Int("total_selected", total).
		Msg("Bulk select complete")
	s.events.Notify(NoticeInfo,
		fmt.Sprintf("selected first %d records; %d selected in total", n, total))
	return nil
}
