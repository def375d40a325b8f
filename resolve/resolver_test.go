package resolve

import (
	"testing"

	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/rhconfig"
	"github.com/grailbio/testutil/expect"
)

func seg(a, b uint32) arrow.Seg { return arrow.Seg{Start: arrow.Arrow(a), Stop: arrow.Arrow(b)} }

func buildList(raw []hit.RawHit) *hit.HitList {
	l := hit.Build(raw, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec)
	return &l
}

// S1: non-overlapping pair both selected.
func TestResolveNonOverlappingPair(t *testing.T) {
	l := buildList([]hit.RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 10},
		{Label: "b", Segments: []arrow.Seg{seg(19, 30)}, RawScore: 5},
	})
	arch := NewResolver(l).Resolve()
	expect.EQ(t, arch.Score, 15.0)
	expect.EQ(t, len(arch.Hits), 2)
}

// S2: overlap tie-break to the higher-scoring hit.
func TestResolveOverlapPicksHigherScore(t *testing.T) {
	l := buildList([]hit.RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 20)}, RawScore: 3},
		{Label: "b", Segments: []arrow.Seg{seg(9, 30)}, RawScore: 4},
	})
	arch := NewResolver(l).Resolve()
	expect.EQ(t, arch.Score, 4.0)
	expect.EQ(t, len(arch.Hits), 1)
	expect.EQ(t, arch.Labels[0], "b")
}

// S3: discontiguous hit a interspersed by contiguous hit b; both kept.
func TestResolveDiscontiguousIntersperses(t *testing.T) {
	l := buildList([]hit.RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 20), seg(59, 80)}, RawScore: 10},
		{Label: "b", Segments: []arrow.Seg{seg(29, 50)}, RawScore: 7},
	})
	arch := NewResolver(l).Resolve()
	expect.EQ(t, arch.Score, 17.0)
	expect.EQ(t, len(arch.Hits), 2)
}

// S4: one long contiguous hit against two shorter contiguous hits inside
// it — the best non-overlapping subset wins even when it means discarding
// the longer single hit.
func TestResolvePicksBestNonOverlappingSubset(t *testing.T) {
	l := buildList([]hit.RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 50)}, RawScore: 10},
		{Label: "b", Segments: []arrow.Seg{seg(4, 15)}, RawScore: 6},
		{Label: "b2", Segments: []arrow.Seg{seg(19, 30)}, RawScore: 5},
	})
	arch := NewResolver(l).Resolve()
	expect.EQ(t, arch.Score, 11.0)
	expect.EQ(t, len(arch.Hits), 2)
}

func TestResolveEmptyHitList(t *testing.T) {
	l := buildList(nil)
	arch := NewResolver(l).Resolve()
	expect.EQ(t, len(arch.Hits), 0)
}

func TestNaiveGreedyNeverBeatsOptimal(t *testing.T) {
	l := buildList([]hit.RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 50)}, RawScore: 10},
		{Label: "b", Segments: []arrow.Seg{seg(4, 15)}, RawScore: 6},
		{Label: "b2", Segments: []arrow.Seg{seg(19, 30)}, RawScore: 5},
	})
	greedy := NaiveGreedyResolve(l)
	optimal := NewResolver(l).Resolve()
	expect.True(t, greedy.Score <= optimal.Score)
}

func TestResolveIsDeterministic(t *testing.T) {
	l := buildList([]hit.RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 20), seg(59, 80)}, RawScore: 10},
		{Label: "b", Segments: []arrow.Seg{seg(29, 50)}, RawScore: 7},
		{Label: "c", Segments: []arrow.Seg{seg(90, 100)}, RawScore: 3},
	})
	a1 := NewResolver(l).Resolve()
	a2 := NewResolver(l).Resolve()
	expect.EQ(t, a1.Score, a2.Score)
	expect.EQ(t, a1.Labels, a2.Labels)
}
