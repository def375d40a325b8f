package resolve

import (
	"sort"

	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
)

// DiscontStartIndex is an immutable, start-arrow-sorted index over a
// HitList's discontiguous hits, built once per query. It supports O(log n)
// lookup of the discontiguous hits whose start arrow falls in a given
// range, the core query needed by the masked-bests cacher's
// precomputation.
type DiscontStartIndex struct {
	list *hit.HitList
	// entries holds (startArrow, hitIndex) pairs sorted by startArrow.
	entries []discontEntry
}

type discontEntry struct {
	start arrow.Arrow
	idx   hit.Index
}

// NewDiscontStartIndex builds the index from every discontiguous hit in l.
func NewDiscontStartIndex(l *hit.HitList) *DiscontStartIndex {
	idxs := l.Discontiguous()
	entries := make([]discontEntry, len(idxs))
	for i, idx := range idxs {
		entries[i] = discontEntry{start: l.At(idx).StartArrow(), idx: idx}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].start < entries[j].start })
	return &DiscontStartIndex{list: l, entries: entries}
}

// Range returns [first, end) indices into this index (not into the
// HitList) such that every entry in that range has start arrow in [lo,
// hi]: first is the first entry with start >= lo, end is the first entry
// with start > hi.
func (d *DiscontStartIndex) Range(lo, hi arrow.Arrow) (first, end int) {
	first = sort.Search(len(d.entries), func(i int) bool { return d.entries[i].start >= lo })
	end = sort.Search(len(d.entries), func(i int) bool { return d.entries[i].start > hi })
	return first, end
}

// Len returns the number of discontiguous hits indexed.
func (d *DiscontStartIndex) Len() int { return len(d.entries) }

// Hit returns the HitList hit at index-index i (as returned by Range), not
// the HitList's own Index.
func (d *DiscontStartIndex) Hit(i int) hit.Hit { return d.list.At(d.entries[i].idx) }

// HitIndex returns the HitList Index of the hit at index-index i.
func (d *DiscontStartIndex) HitIndex(i int) hit.Index { return d.entries[i].idx }
