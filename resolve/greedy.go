package resolve

import (
	"sort"

	"github.com/grailbio/resolvehits/hit"
)

// NaiveGreedyResolve implements the configurable greedy alternative to the
// optimal DP resolver: sort hits by descending score and admit any that
// doesn't overlap the already-admitted set. This trades optimality for
// speed and simplicity; use only when explicitly requested, since it only
// guarantees score(NaiveGreedyResolve(H)) <= score(Resolve(H)).
func NaiveGreedyResolve(hits *hit.HitList) ScoredArchitecture {
	n := hits.Len()
	order := make([]hit.Index, n)
	for i := range order {
		order[i] = hit.Index(i)
	}
	sort.Slice(order, func(i, j int) bool {
		return hits.At(order[i]).Score > hits.At(order[j]).Score
	})

	var accepted []hit.Hit
	out := ScoredArchitecture{}
	for _, idx := range order {
		h := hits.At(idx)
		if h.OverlapsAny(accepted) {
			continue
		}
		accepted = append(accepted, h)
		out.Hits = append(out.Hits, h)
		out.Labels = append(out.Labels, hits.Label(idx))
		out.Score += h.Score
	}
	return out
}
