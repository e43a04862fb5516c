// Package collision deduplicates byte records by a 64-bit hash while
// detecting hash collisions.
package collision

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// Tracker maps byte records to values, keyed by the xxHash64 of the record.
// Every hash match is confirmed byte for byte; records that collide on the
// hash are kept apart and the collision is flagged.
//
// Note: a Tracker is NOT thread-safe.
type Tracker[V any] struct {
	sum          func([]byte) uint64
	entries      map[uint64][]entry[V]
	count        int
	hasCollision bool
}

type entry[V any] struct {
	record []byte
	value  V
}

// NewTracker creates an empty tracker.
func NewTracker[V any]() *Tracker[V] {
	return newTrackerWithSum[V](xxhash.Sum64)
}

func newTrackerWithSum[V any](sum func([]byte) uint64) *Tracker[V] {
	return &Tracker[V]{
		sum:     sum,
		entries: make(map[uint64][]entry[V]),
	}
}

// LoadOrStore returns the value tracked for record, or tracks and returns
// newValue() if record is new. The bool result is true if the value was
// already tracked. The record bytes are retained.
func (t *Tracker[V]) LoadOrStore(record []byte, newValue func() V) (V, bool) {
	h := t.sum(record)

	bucket := t.entries[h]
	for _, e := range bucket {
		if bytes.Equal(e.record, record) {
			return e.value, true
		}
	}

	if len(bucket) > 0 {
		t.hasCollision = true
	}

	v := newValue()
	t.entries[h] = append(bucket, entry[V]{record: record, value: v})
	t.count++

	return v, false
}

// HasCollision reports whether two distinct records shared a hash.
func (t *Tracker[V]) HasCollision() bool {
	return t.hasCollision
}

// Count returns the number of distinct records tracked.
func (t *Tracker[V]) Count() int {
	return t.count
}
