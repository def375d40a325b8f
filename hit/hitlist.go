package hit

import (
	"math"
	"sort"

	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/rhconfig"
)

// RawHit is a hit as produced by a parser, before segment trimming and
// score-spec transformation.
type RawHit struct {
	Label    string
	Segments []arrow.Seg
	RawScore float64
	Extras   Extras
}

// HitList is a per-query, canonically-ordered collection of hits.
//
// The zero value is not usable; build one with Build.
type HitList struct {
	hits    []Hit
	labels  []string
	maxStop arrow.Arrow
}

// Len returns the number of hits in the list.
func (l *HitList) Len() int { return len(l.hits) }

// At returns the i'th hit in canonical order.
func (l *HitList) At(i Index) Hit { return l.hits[i] }

// Label returns the label string for hit i.
func (l *HitList) Label(i Index) string { return l.labels[i] }

// MaxStopArrow returns the largest StopArrow across all hits, or 0 if the
// list is empty.
func (l *HitList) MaxStopArrow() arrow.Arrow { return l.maxStop }

// transformScore derives a DP score from a raw hit's raw score, per spec.
func transformScore(raw RawHit, spec rhconfig.ScoreSpec) float64 {
	switch spec.Kind {
	case rhconfig.ScoreNegLog10Evalue:
		if raw.RawScore <= 0 {
			return math.Inf(-1)
		}
		return -math.Log10(raw.RawScore)
	case rhconfig.ScoreLinear:
		return spec.Scale*raw.RawScore + spec.Offset
	case rhconfig.ScoreBitscoreDivisor:
		suspicious := raw.Extras.HasEvalues && rhconfig.EvaluesAreSuspicious(raw.Extras.CondEvalue, raw.Extras.IndepEvalue)
		return raw.RawScore / spec.BitscoreDivisor(suspicious)
	default:
		return raw.RawScore
	}
}

// trimSeg shrinks s by fraction on each end, for use only when computing DP
// overlaps; the caller keeps the untrimmed segment for reporting.
func trimSeg(s arrow.Seg, fraction float64) arrow.Seg {
	if fraction <= 0 {
		return s
	}
	trim := arrow.Arrow(float64(s.Len()) * fraction)
	start := s.Start + trim
	stop := s.Stop - trim
	if start >= stop {
		mid := s.Start + arrow.Arrow(s.Len()/2)
		return arrow.Seg{Start: mid, Stop: mid + 1}
	}
	return arrow.Seg{Start: start, Stop: stop}
}

// Build constructs a canonically-ordered HitList from raw hits:
// segments shorter than segSpec.MinSegLength are dropped; a
// hit with no remaining segments is discarded entirely; DP scores are
// computed via scoreSpec; overlap-trimmed segments (segSpec) are used only
// for the DP's own overlap checks — reported segments are untrimmed.
func Build(raw []RawHit, scoreSpec rhconfig.ScoreSpec, segSpec rhconfig.SegSpec) HitList {
	hits := make([]Hit, 0, len(raw))
	labels := make([]string, 0, len(raw))

	for _, r := range raw {
		kept := make([]arrow.Seg, 0, len(r.Segments))
		for _, s := range r.Segments {
			if s.Len() >= segSpec.MinSegLength {
				kept = append(kept, trimSeg(s, segSpec.OverlapTrimFraction))
			}
		}
		if len(kept) == 0 {
			continue
		}
		hits = append(hits, Hit{
			Segments: kept,
			Score:    transformScore(r, scoreSpec),
			Label:    uint32(len(labels)),
			Extras:   r.Extras,
		})
		labels = append(labels, r.Label)
	}

	order := make([]int, len(hits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return lessHit(hits[order[i]], labels[order[i]], hits[order[j]], labels[order[j]])
	})

	sortedHits := make([]Hit, len(hits))
	sortedLabels := make([]string, len(hits))
	for newIdx, oldIdx := range order {
		sortedHits[newIdx] = hits[oldIdx]
		sortedHits[newIdx].Label = uint32(newIdx)
		sortedLabels[newIdx] = labels[oldIdx]
	}

	var maxStop arrow.Arrow
	for _, h := range sortedHits {
		if s := h.StopArrow(); s > maxStop {
			maxStop = s
		}
	}

	return HitList{hits: sortedHits, labels: sortedLabels, maxStop: maxStop}
}

// Prune removes strictly-dominated duplicates (identical segment ranges,
// lower score), keeping the highest-scoring hit for each distinct range. It
// must be called after Build, since it relies on canonical ordering having
// already assigned each hit its Label index; indices referenced by any
// previously-computed architecture are invalidated by a call to Prune.
func (l *HitList) Prune() {
	if len(l.hits) == 0 {
		return
	}
	kept := make([]Hit, 0, len(l.hits))
	keptLabels := make([]string, 0, len(l.labels))
	for i, h := range l.hits {
		// Hits with identical ranges share start and stop arrows, so every
		// duplicate of h lies in the run after it with the same start and
		// stop; that run is sorted by ascending score.
		dominated := false
		for k := i + 1; k < len(l.hits) && l.hits[k].StopArrow() == h.StopArrow() && l.hits[k].StartArrow() == h.StartArrow(); k++ {
			if sameRange(h, l.hits[k]) && h.Score <= l.hits[k].Score {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}
		h.Label = uint32(len(kept))
		kept = append(kept, h)
		keptLabels = append(keptLabels, l.labels[i])
	}
	l.hits = kept
	l.labels = keptLabels
}

func sameRange(a, b Hit) bool {
	if len(a.Segments) != len(b.Segments) {
		return false
	}
	for i := range a.Segments {
		if a.Segments[i] != b.Segments[i] {
			return false
		}
	}
	return true
}

// lessHit implements the canonical HitList ordering: ascending by
// (stop_arrow, start_arrow, score, n_segments, segment ranges..., label
// string).
func lessHit(a Hit, aLabel string, b Hit, bLabel string) bool {
	if d := cmpArrow(a.StopArrow(), b.StopArrow()); d != 0 {
		return d < 0
	}
	if d := cmpArrow(a.StartArrow(), b.StartArrow()); d != 0 {
		return d < 0
	}
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	if len(a.Segments) != len(b.Segments) {
		return len(a.Segments) < len(b.Segments)
	}
	for i := range a.Segments {
		if d := cmpArrow(a.Segments[i].Start, b.Segments[i].Start); d != 0 {
			return d < 0
		}
		if d := cmpArrow(a.Segments[i].Stop, b.Segments[i].Stop); d != 0 {
			return d < 0
		}
	}
	return aLabel < bLabel
}

func cmpArrow(a, b arrow.Arrow) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Discontiguous returns the indices of every discontiguous hit in l, in
// canonical HitList order.
func (l *HitList) Discontiguous() []Index {
	var out []Index
	for i, h := range l.hits {
		if h.IsDiscontig() {
			out = append(out, Index(i))
		}
	}
	return out
}

// IndicesStoppingInRange returns the indices of hits whose StopArrow lies
// in (lo, hi], in ascending order of stop arrow. Canonical order sorts
// primarily by StopArrow ascending, so the bounds are found by binary
// search and the run between them is returned directly.
func (l *HitList) IndicesStoppingInRange(lo, hi arrow.Arrow) []Index {
	first := sort.Search(len(l.hits), func(i int) bool { return l.hits[i].StopArrow() > lo })
	end := sort.Search(len(l.hits), func(i int) bool { return l.hits[i].StopArrow() > hi })
	if first >= end {
		return nil
	}
	out := make([]Index, end-first)
	for i := first; i < end; i++ {
		out[i-first] = Index(i)
	}
	return out
}
