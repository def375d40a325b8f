package resolve

import (
	"sort"

	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
)

// Cacher is the streaming "advance and cache" cursor: as a DP scan
// advances through increasing arrows, it stores the best-so-far
// architecture into a MaskedBestsCache at a small set of precomputed
// boundaries, so that a later recursive call which re-enters this same
// mask signature can look up the answer instead of re-scanning.
type Cacher struct {
	cache       *MaskedBestsCache
	sig         MaskSignature
	cacheArrows []arrow.Arrow
	next        int // index into cacheArrows of the next arrow to store
}

// NewCacher builds a Cacher for a scan over mask starting at startArrow,
// precomputing the arrows at which results will be needed later via
// PrecomputeCacheArrows.
func NewCacher(cache *MaskedBestsCache, mask []hit.Hit, dsi *DiscontStartIndex, startArrow arrow.Arrow) *Cacher {
	sig := NewMaskSignature(mask)
	return &Cacher{
		cache:       cache,
		sig:         sig,
		cacheArrows: PrecomputeCacheArrows(mask, dsi, startArrow),
	}
}

// AdvanceToPosWithBestSoFar stores sa for every precomputed arrow <= a not
// yet stored.
func (c *Cacher) AdvanceToPosWithBestSoFar(a arrow.Arrow, sa ScoredArch) {
	for c.next < len(c.cacheArrows) && c.cacheArrows[c.next] <= a {
		c.cache.Store(c.sig, c.cacheArrows[c.next], sa)
		c.next++
	}
}

// AdvanceToEndWithBestSoFar stores sa for every precomputed arrow that
// hasn't been stored yet, i.e. flushes the remainder of cacheArrows.
func (c *Cacher) AdvanceToEndWithBestSoFar(sa ScoredArch) {
	for c.next < len(c.cacheArrows) {
		c.cache.Store(c.sig, c.cacheArrows[c.next], sa)
		c.next++
	}
}

// PrecomputeCacheArrows computes the arrows at which a scan over mask,
// starting at startArrow, should store intermediate best-so-far results
// for later reuse.
//
// If mask is empty, there is nothing to memoise (there's only ever one
// top-level scan with an empty mask). Otherwise, let p be the latest stop
// of any mask hit's first segment and q the earliest start of any mask
// hit's last segment. When p >= q the mask hits' interiors share no common
// region and the result is empty. Otherwise every
// discontiguous hit starting in (p, q] that right-or-inside-intersperses
// every mask hit, and strictly right-intersperses at least one, is a point
// at which a later recursive call could re-enter this exact mask and need
// this scan's memoised result.
func PrecomputeCacheArrows(mask []hit.Hit, dsi *DiscontStartIndex, startArrow arrow.Arrow) []arrow.Arrow {
	if len(mask) == 0 {
		return nil
	}

	p := mask[0].FirstSegStop()
	for _, m := range mask[1:] {
		if s := m.FirstSegStop(); s > p {
			p = s
		}
	}
	q := mask[0].LastSegStart()
	for _, m := range mask[1:] {
		if s := m.LastSegStart(); s < q {
			q = s
		}
	}
	if p >= q {
		// The mask's hits share no common interior region; nothing to
		// precompute (this can legitimately happen for masks built from
		// hits whose gaps don't overlap).
		return nil
	}

	first, end := dsi.Range(p.Succ(), q)
	var out []arrow.Arrow
	seen := make(map[arrow.Arrow]bool)
	for i := first; i < end; i++ {
		h := dsi.Hit(i)
		if !suitableIntersperses(h, mask) {
			continue
		}
		start := h.StartArrow()
		if start < startArrow || seen[start] {
			continue
		}
		seen[start] = true
		out = append(out, start)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// suitableIntersperses reports whether h right-or-inside-intersperses
// every hit in mask, and strictly right-intersperses at least one.
func suitableIntersperses(h hit.Hit, mask []hit.Hit) bool {
	if !h.IsDiscontig() {
		return false
	}
	anyStrict := false
	for _, m := range mask {
		if !arrow.RightOrInsideIntersperses(h.Segments, m.Segments) {
			return false
		}
		if arrow.RightIntersperses(h.Segments, m.Segments) {
			anyStrict = true
		}
	}
	return anyStrict
}
