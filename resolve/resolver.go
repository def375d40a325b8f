package resolve

import (
	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
)

// Resolver finds the maximum-scoring, pairwise non-overlapping subset of
// hits in a HitList, via a recursive dynamic program over discontiguous
// intervals. A Resolver is scoped to a single query's HitList; its cache
// and index are released (eligible for GC) once Resolve returns.
type Resolver struct {
	hits    *hit.HitList
	dsi     *DiscontStartIndex
	cache   *MaskedBestsCache
	maxStop arrow.Arrow
}

// NewResolver builds a Resolver over hits.
func NewResolver(hits *hit.HitList) *Resolver {
	return &Resolver{
		hits:    hits,
		dsi:     NewDiscontStartIndex(hits),
		cache:   NewMaskedBestsCache(),
		maxStop: hits.MaxStopArrow(),
	}
}

// Resolve computes the maximum-scoring non-overlapping subset of r's hits
// and materialises it against the HitList.
func (r *Resolver) Resolve() ScoredArchitecture {
	sa := r.bestRegion(nil, 0, r.maxStop.Succ(), unknownArch)
	return r.materialise(sa)
}

func (r *Resolver) materialise(sa ScoredArch) ScoredArchitecture {
	out := ScoredArchitecture{Score: sa.Score}
	out.Hits = make([]hit.Hit, len(sa.HitIdxs))
	out.Labels = make([]string, len(sa.HitIdxs))
	for i, idx := range sa.HitIdxs {
		out.Hits[i] = r.hits.At(idx)
		out.Labels[i] = r.hits.Label(idx)
	}
	return out
}

// bestRegion computes the best architecture attainable over [start, stop)
// given that no hit in mask may be used, and that bestBeforeStart is
// already known to be the best architecture attainable up to (but not
// including the contribution of anything at-or-after) start.
//
// It scans every hit whose stop arrow falls in (start, stop], grouped by
// equal stop arrow, updating a ScanArches for this layer and, for any
// discontiguous hit considered, a further recursive call into the region
// that hit's own gap exposes.
func (r *Resolver) bestRegion(mask []hit.Hit, start, stop arrow.Arrow, bestBeforeStart ScoredArch) ScoredArch {
	bsa := NewScanArches(stop.Index())
	if start > 0 && bestBeforeStart.Score > unknownArch.Score {
		bsa.ExtendUpToArrow(start.Pred())
		bsa.AddBestUpToArrow(start, bestBeforeStart)
	}

	cacher := NewCacher(r.cache, mask, r.dsi, start)

	idxs := r.hits.IndicesStoppingInRange(start, stop)
	for i := 0; i < len(idxs); {
		j := i + 1
		current := r.hits.At(idxs[i]).StopArrow()
		for j < len(idxs) && r.hits.At(idxs[j]).StopArrow() == current {
			j++
		}
		group := idxs[i:j]

		cacher.AdvanceToPosWithBestSoFar(current, bsa.BestSoFar())
		prevBest := bsa.ExtendUpToArrow(current.Pred())

		bestNew, ok := r.bestUsingOneOf(group, mask, start, bsa, prevBest)
		if ok && bestNew.Score > prevBest {
			bsa.AddBestUpToArrow(current, bestNew)
		} else {
			bsa.ExtendUpToArrow(current)
		}

		i = j
	}

	cacher.AdvanceToEndWithBestSoFar(bsa.BestSoFar())
	return bsa.BestSoFar()
}

// bestUsingOneOf considers every hit in group (all sharing the same stop
// arrow) and returns the best-scoring candidate architecture that uses one
// of them, if any beats both the running best and scoreToBeat. Ties are
// broken by canonical HitList order: only strictly-greater improvements
// replace the current best, so among equal-scoring candidates the first
// encountered (i.e. earliest in canonical order) wins.
func (r *Resolver) bestUsingOneOf(group []hit.Index, mask []hit.Hit, start arrow.Arrow, bsa *ScanArches, scoreToBeat float64) (ScoredArch, bool) {
	best := zeroArch
	bestScore := scoreToBeat
	found := false

	for _, idx := range group {
		h := r.hits.At(idx)
		if h.OverlapsAny(mask) {
			continue
		}

		var candidate ScoredArch
		if !h.IsDiscontig() {
			candidate = bsa.BestUpToArrow(h.StartArrow()).withHit(idx, h.Score)
		} else {
			newMask := append(append([]hit.Hit(nil), mask...), h)
			var complement ScoredArch
			if h.StartArrow() >= start {
				complement = r.bestRegion(newMask, h.FirstSegStop(), h.LastSegStart(), bsa.BestUpToArrow(h.StartArrow()))
			} else {
				sig := NewMaskSignature(newMask)
				complement = r.bestRegion(newMask, start, h.LastSegStart(), r.cache.GetBestForMasksUpToArrow(sig, start))
			}
			candidate = complement.withHit(idx, h.Score)
		}

		if candidate.Score > bestScore {
			best = candidate
			bestScore = candidate.Score
			found = true
		}
	}
	return best, found
}
