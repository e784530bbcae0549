package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Yash3470/art-table/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves pages from an in-memory record set.
type fakeSource struct {
	mu       sync.Mutex
	records  []source.Record
	pageSize int
	calls    int
	failPage int
	delay    time.Duration
}

func (f *fakeSource) FetchPage(ctx context.Context, page int) (*source.Page, error) {
	f.mu.Lock()
	f.calls++
	failPage := f.failPage
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if failPage != 0 && page == failPage {
		return nil, errors.New("boom")
	}

	total := len(f.records)
	totalPages := (total + f.pageSize - 1) / f.pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * f.pageSize
	if start > total {
		start = total
	}
	end := start + f.pageSize
	if end > total {
		end = total
	}

	return &source.Page{
		Records: f.records[start:end],
		Pagination: source.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			Total:       total,
		},
	}, nil
}

func makeRecords(n int) []source.Record {
	out := make([]source.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, source.Record{ID: int64(i)})
	}
	return out
}

// recordingEvents captures everything the session surfaces.
type recordingEvents struct {
	mu      sync.Mutex
	loading []bool
	checked [][]source.Record
	totals  []int
	notices []string
	levels  []NoticeLevel
}

func (e *recordingEvents) Loading(busy bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = append(e.loading, busy)
}

func (e *recordingEvents) PageLoaded(page *source.Page, checked []source.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checked = append(e.checked, checked)
}

func (e *recordingEvents) SelectionChanged(total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.totals = append(e.totals, total)
}

func (e *recordingEvents) Notify(level NoticeLevel, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.levels = append(e.levels, level)
	e.notices = append(e.notices, msg)
}

func (e *recordingEvents) lastChecked() []source.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.checked) == 0 {
		return nil
	}
	return e.checked[len(e.checked)-1]
}

func TestSession_SelectionPersistsAcrossPages(t *testing.T) {
	src := &fakeSource{records: makeRecords(30), pageSize: 10}
	events := &recordingEvents{}
	s := New(src, events)
	ctx := context.Background()

	require.NoError(t, s.PageChanged(ctx, 1))

	// check record 3 on page 1
	s.SelectionEdited([]source.Record{{ID: 3}})

	require.NoError(t, s.PageChanged(ctx, 2))
	assert.Empty(t, events.lastChecked())

	require.NoError(t, s.PageChanged(ctx, 1))
	assert.Equal(t, []source.Record{{ID: 3}}, events.lastChecked())
}

func TestSession_EditWithoutPageIsIgnored(t *testing.T) {
	src := &fakeSource{records: makeRecords(10), pageSize: 10}
	s := New(src, nil)

	s.SelectionEdited([]source.Record{{ID: 1}})

	assert.Equal(t, 0, s.Store().Size())
}

func TestSession_PageLoadFailureKeepsState(t *testing.T) {
	src := &fakeSource{records: makeRecords(30), pageSize: 10, failPage: 2}
	events := &recordingEvents{}
	s := New(src, events)
	ctx := context.Background()

	require.NoError(t, s.PageChanged(ctx, 1))
	s.SelectionEdited([]source.Record{{ID: 5}})

	err := s.PageChanged(ctx, 2)
	require.Error(t, err)

	// previous page view retained, selection untouched
	assert.Equal(t, 1, s.CurrentPage().Pagination.CurrentPage)
	assert.True(t, s.Store().Has(5))
	assert.Contains(t, events.notices[len(events.notices)-1], "failed to load page 2")

	// loading signal cleared
	assert.False(t, events.loading[len(events.loading)-1])
}

func TestSession_BulkSelect(t *testing.T) {
	src := &fakeSource{records: makeRecords(50), pageSize: 10}
	events := &recordingEvents{}
	s := New(src, events)
	ctx := context.Background()

	require.NoError(t, s.PageChanged(ctx, 1))
	require.NoError(t, s.BulkSelectRequested(ctx, 25))

	assert.Equal(t, 25, s.Store().Size())
	for id := int64(1); id <= 25; id++ {
		assert.True(t, s.Store().Has(id), "record %d missing from bulk selection", id)
	}

	// the visible page reflects the new state
	assert.Len(t, events.lastChecked(), 10)
	assert.Equal(t, NoticeInfo, events.levels[len(events.levels)-1])
}

func TestSession_BulkSelectIsIdempotent(t *testing.T) {
	src := &fakeSource{records: makeRecords(50), pageSize: 10}
	s := New(src, nil)
	ctx := context.Background()

	require.NoError(t, s.BulkSelectRequested(ctx, 5))
	first := s.Store().Size()

	require.NoError(t, s.BulkSelectRequested(ctx, 5))

	assert.Equal(t, first, s.Store().Size())
	assert.Equal(t, 5, s.Store().Size())
}

func TestSession_BulkSelectIsAdditive(t *testing.T) {
	src := &fakeSource{records: makeRecords(50), pageSize: 10}
	s := New(src, nil)
	ctx := context.Background()

	// manually select a record far outside the top-N
	require.NoError(t, s.PageChanged(ctx, 5))
	s.SelectionEdited([]source.Record{{ID: 42}})

	require.NoError(t, s.BulkSelectRequested(ctx, 5))

	assert.Equal(t, 6, s.Store().Size())
	assert.True(t, s.Store().Has(42), "bulk select must never reset prior selections")
}

func TestSession_BulkSelectUnderSupply(t *testing.T) {
	src := &fakeSource{records: makeRecords(3), pageSize: 10}
	events := &recordingEvents{}
	s := New(src, events)

	require.NoError(t, s.BulkSelectRequested(context.Background(), 10))

	assert.Equal(t, 3, s.Store().Size())
	assert.Equal(t, NoticeWarn, events.levels[len(events.levels)-1])
}

func TestSession_BulkSelectInvalidCount(t *testing.T) {
	src := &fakeSource{records: makeRecords(10), pageSize: 10}
	events := &recordingEvents{}
	s := New(src, events)

	for _, n := range []int{0, -1} {
		err := s.BulkSelectRequested(context.Background(), n)
		assert.ErrorIs(t, err, ErrInvalidCount)
	}

	assert.Equal(t, 0, s.Store().Size())
	assert.Equal(t, 0, src.calls, "invalid counts must be rejected before any fetch")
	assert.Equal(t, []NoticeLevel{NoticeError, NoticeError}, events.levels)
}

func TestSession_BulkSelectRejectedWhileInFlight(t *testing.T) {
	src := &fakeSource{records: makeRecords(100), pageSize: 10, delay: 50 * time.Millisecond}
	s := New(src, nil)
	ctx := context.Background()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- s.BulkSelectRequested(ctx, 50)
	}()

	<-started
	time.Sleep(10 * time.Millisecond) // let the first request reach the fetch loop

	err := s.BulkSelectRequested(ctx, 10)
	assert.ErrorIs(t, err, ErrBulkInFlight)

	require.NoError(t, <-done)
	assert.Equal(t, 50, s.Store().Size())
}
