package selection

import (
	"testing"

	"github.com/Yash3470/art-table/pkg/source"
	"github.com/stretchr/testify/assert"
)

func rec(id int64) source.Record {
	return source.Record{ID: id, Title: "Artwork"}
}

func TestStore_PutDelete(t *testing.T) {
	s := NewStore()

	assert.Equal(t, 0, s.Size())
	assert.False(t, s.Has(1))

	s.Put(rec(1))
	s.Put(rec(2))
	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Has(1))
	assert.True(t, s.Has(2))

	s.Delete(1)
	assert.Equal(t, 1, s.Size())
	assert.False(t, s.Has(1))
	assert.True(t, s.Has(2))
}

func TestStore_PutIsIdempotent(t *testing.T) {
	s := NewStore()

	s.Put(rec(7))
	s.Put(rec(7))
	s.Put(rec(7))

	assert.Equal(t, 1, s.Size())
}

func TestStore_DeleteAbsentIsNoop(t *testing.T) {
	s := NewStore()
	s.Put(rec(1))

	s.Delete(99)

	assert.Equal(t, 1, s.Size())
}

func TestStore_Snapshot(t *testing.T) {
	s := NewStore()
	s.Put(rec(1))
	s.Put(rec(2))

	snap := s.Snapshot()
	assert.Len(t, snap, 2)

	// snapshot is a copy - mutating it must not affect the store
	snap[0] = rec(99)
	assert.False(t, s.Has(99))

	ids := map[int64]bool{}
	for _, r := range s.Snapshot() {
		ids[r.ID] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])
}
