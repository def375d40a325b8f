package resolve

import "github.com/grailbio/resolvehits/arrow"

// ScanArches is the per-DP-layer record of best architectures seen during a
// single left-to-right scan over arrows. It stores the distinct
// architectures observed (archs) and a map from each arrow index to the
// position in archs of the best architecture known up to that arrow,
// sharing identical prefixes compactly instead of storing one ScoredArch
// per arrow.
//
// INVARIANT: bests is only ever extended at index len(bests) (i.e. new
// entries are appended one past the end) — violating this is a caller bug
// and panics rather than returning an error, since it can only mean the
// scan's own layering logic is broken.
type ScanArches struct {
	archs []ScoredArch
	bests []int
}

// NewScanArches returns a ScanArches initialised with the empty
// architecture as the best-so-far at arrow 0, with capacity for up to
// capacity further arrows.
func NewScanArches(capacity int) *ScanArches {
	s := &ScanArches{
		archs: make([]ScoredArch, 1, capacity+1),
		bests: make([]int, 1, capacity+1),
	}
	s.archs[0] = zeroArch
	s.bests[0] = 0
	return s
}

// BestUpToArrow returns the best architecture known up to and including a.
//
// REQUIRES: a.Index() < len(bests) (i.e. a has already been scanned over).
func (s *ScanArches) BestUpToArrow(a arrow.Arrow) ScoredArch {
	idx := a.Index()
	if idx >= len(s.bests) {
		panic("resolve: BestUpToArrow called beyond what has been scanned")
	}
	return s.archs[s.bests[idx]]
}

// BestSoFar returns the best architecture seen across the whole scan so
// far.
func (s *ScanArches) BestSoFar() ScoredArch {
	return s.archs[s.bests[len(s.bests)-1]]
}

// ExtendUpToArrow records that the current best-so-far architecture is
// still the best up to and including a, and returns its score.
//
// REQUIRES: a.Index()+1 >= len(bests) (a is at least as high as the last
// arrow already recorded).
func (s *ScanArches) ExtendUpToArrow(a arrow.Arrow) float64 {
	idx := a.Index()
	if idx+1 < len(s.bests) {
		panic("resolve: ExtendUpToArrow called with an arrow lower than the last seen")
	}
	last := s.bests[len(s.bests)-1]
	for len(s.bests) <= idx {
		s.bests = append(s.bests, last)
	}
	return s.BestSoFar().Score
}

// AddBestUpToArrow records sa as the new best architecture up to and
// including a.
//
// REQUIRES: a.Index() == len(bests) (a is exactly one past the last arrow
// recorded so far).
func (s *ScanArches) AddBestUpToArrow(a arrow.Arrow, sa ScoredArch) {
	if a.Index() != len(s.bests) {
		panic("resolve: AddBestUpToArrow called out of sequence")
	}
	s.archs = append(s.archs, sa)
	s.bests = append(s.bests, len(s.archs)-1)
}
