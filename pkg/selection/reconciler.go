package selection

import (
	"github.com/Yash3470/art-table/pkg/source"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Reconciler derives the checked-rows view for the visible page and folds
// manual checkbox edits back into the store.
type Reconciler struct {
	store  *Store
	logger zerolog.Logger
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(store *Store) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: log.With().Str("component", "reconciler").Logger(),
	}
}

// VisibleSelection returns the subset of pageRecords that is currently
// selected, in page order. Pure derivation, recomputed on every page load.
func (r *Reconciler) VisibleSelection(pageRecords []source.Record) []source.Record {
	visible := make([]source.Record, 0, len(pageRecords))
	for _, rec := range pageRecords {
		if r.store.Has(rec.ID) {
			visible = append(visible, rec)
		}
	}
	return visible
}

// ApplyEdit reconciles the table's reported checked set against the store.
//
// The table reports the complete checked set for the current page, not a
// delta, so every identity on the page is cleared first and the reported
// set is inserted afterwards. Entries for identities not on the current
// page are untouched. After the call, a record on the page is selected
// exactly when it appears in newVisible.
func (r *Reconciler) ApplyEdit(newVisible, pageRecords []source.Record) {
	for _, rec := range pageRecords {
		r.store.Delete(rec.ID)
	}
	for _, rec := range newVisible {
		r.store.Put(rec)
	}

	r.logger.Debug().
		Int("checked_on_page", len(newVisible)).
		Int("page_records", len(pageRecords)).
		Int("total_selected", r.store.Size()).
		Msg("Selection reconciled")
}
