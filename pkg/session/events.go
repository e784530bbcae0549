package session

import (
	"github.com/Yash3470/art-table/pkg/source"
)

// NoticeLevel grades a human-readable notification.
type NoticeLevel string

const (
	// NoticeInfo reports successful operations.
	NoticeInfo NoticeLevel = "info"

	// NoticeWarn reports partial successes.
	NoticeWarn NoticeLevel = "warn"

	// NoticeError reports rejected or failed operations.
	NoticeError NoticeLevel = "error"
)

// Events is the sink for everything the engine surfaces to the UI
// collaborator: a busy signal, the visible page with its checked rows, the
// global selection size, and notifications. Implementations must be cheap;
// they are called from inside the dispatcher.
type Events interface {
	// Loading signals fetch activity. May fire multiple times per command.
	Loading(busy bool)

	// PageLoaded delivers the visible page and its derived checked rows.
	PageLoaded(page *source.Page, checked []source.Record)

	// SelectionChanged delivers the new global selection size.
	SelectionChanged(total int)

	// Notify delivers a human-readable notification.
	Notify(level NoticeLevel, msg string)
}

// NopEvents discards all events. Useful for tests and headless use.
type NopEvents struct{}

func (NopEvents) Loading(bool)                             {}
func (NopEvents) PageLoaded(*source.Page, []source.Record) {}
func (NopEvents) SelectionChanged(int)                     {}
func (NopEvents) Notify(NoticeLevel, string)               {}
