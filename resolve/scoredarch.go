// Package resolve implements the hit-resolution dynamic program: the
// maximum-scoring, pairwise non-overlapping subset of a query's HitList.
package resolve

import (
	"math"

	"github.com/grailbio/resolvehits/hit"
)

// ScoredArch is a compact architecture reference: a score and the sorted,
// unique hit indices that make it up. It refers into a single HitList.
type ScoredArch struct {
	Score   float64
	HitIdxs []hit.Index
}

// zeroArch is the empty architecture: no hits selected, score 0. It is the
// DP's true identity element, seeding ScanArches so that "select nothing"
// is always an available (and, when every hit scores negatively, winning)
// candidate.
var zeroArch = ScoredArch{Score: 0}

// unknownArch is a distinct sentinel meaning "no best-before-start is
// known", used only for the best_before_start injection check in bestRegion
// and for MaskedBestsCache misses. Its score is -Inf so it never wins a
// strictly-greater comparison and is never mistaken for a real zero-score
// architecture.
var unknownArch = ScoredArch{Score: math.Inf(-1)}

// withHit returns a new ScoredArch extending sa with hit idx (scored score),
// appending idx without sorting. HitIdxs stays sorted because idx is always
// greater than every index already in sa for this recursion's use: the DP
// only ever adds a hit whose stop arrow is beyond every previously-placed
// hit's stop arrow, and HitList order is by stop arrow first.
func (sa ScoredArch) withHit(idx hit.Index, score float64) ScoredArch {
	idxs := make([]hit.Index, len(sa.HitIdxs)+1)
	copy(idxs, sa.HitIdxs)
	idxs[len(sa.HitIdxs)] = idx
	return ScoredArch{Score: sa.Score + score, HitIdxs: idxs}
}

// ScoredArchitecture is the fully-resolved, top-level result of Resolve:
// the maximum-scoring non-overlapping subset of a query's hits.
type ScoredArchitecture struct {
	Score float64
	Hits  []hit.Hit
	Labels []string
}
