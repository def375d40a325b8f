// Package hit implements the scored-hit model and per-query hit list that
// the resolve package's dynamic-programming recursion operates over.
package hit

import "github.com/grailbio/resolvehits/arrow"

// Index refers to a Hit by its position in a HitList.
type Index uint32

// Extras carries optional per-source auxiliary fields that are not used by
// the DP recursion itself but are needed by processors when rendering a
// resolved architecture (e.g. HMMER conditional/independent e-values).
type Extras struct {
	CondEvalue    float64
	IndepEvalue   float64
	HasEvalues    bool
	DomainOrdinal int
}

// Hit is a scored, possibly multi-segment interval.
//
// INVARIANT: Segments is non-empty, pairwise disjoint and held in strictly
// increasing order; Score is finite; if len(Segments) > 1, every
// consecutive pair has a strictly positive gap (Segments[i].Stop <
// Segments[i+1].Start).
type Hit struct {
	Segments []arrow.Seg
	Score    float64
	Label    uint32
	Extras   Extras
}

// IsDiscontig reports whether h has more than one segment.
func (h Hit) IsDiscontig() bool { return len(h.Segments) > 1 }

// StartArrow returns the start of h's first segment.
func (h Hit) StartArrow() arrow.Arrow { return h.Segments[0].Start }

// StopArrow returns the stop of h's last segment.
func (h Hit) StopArrow() arrow.Arrow { return h.Segments[len(h.Segments)-1].Stop }

// FirstSegStop returns the stop of h's first segment. For a discontiguous
// hit, this is the start of its first interior gap.
func (h Hit) FirstSegStop() arrow.Arrow { return h.Segments[0].Stop }

// LastSegStart returns the start of h's last segment. For a discontiguous
// hit, this is the end of its last interior gap.
func (h Hit) LastSegStart() arrow.Arrow { return h.Segments[len(h.Segments)-1].Start }

// Overlaps reports whether any segment of h overlaps any segment of o.
func (h Hit) Overlaps(o Hit) bool { return arrow.SegsOverlap(h.Segments, o.Segments) }

// OverlapsAny reports whether h overlaps any hit in mask.
func (h Hit) OverlapsAny(mask []Hit) bool {
	for _, m := range mask {
		if h.Overlaps(m) {
			return true
		}
	}
	return false
}
