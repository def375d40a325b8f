package hit

import (
	"testing"

	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/rhconfig"
	"github.com/grailbio/testutil/expect"
)

func seg(a, b uint32) arrow.Seg { return arrow.Seg{Start: arrow.Arrow(a), Stop: arrow.Arrow(b)} }

func TestBuildSortsCanonically(t *testing.T) {
	raw := []RawHit{
		{Label: "b", Segments: []arrow.Seg{seg(10, 30)}, RawScore: 4},
		{Label: "a", Segments: []arrow.Seg{seg(0, 20)}, RawScore: 3},
	}
	l := Build(raw, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec)
	expect.EQ(t, l.Len(), 2)
	// a stops at 20, b stops at 30: a comes first.
	expect.EQ(t, l.Label(0), "a")
	expect.EQ(t, l.Label(1), "b")
}

func TestBuildDropsShortSegments(t *testing.T) {
	raw := []RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 2), seg(49, 100)}, RawScore: 10},
	}
	segSpec := rhconfig.SegSpec{MinSegLength: 5}
	l := Build(raw, rhconfig.DefaultScoreSpec, segSpec)
	expect.EQ(t, l.Len(), 1)
	expect.EQ(t, l.At(0).Segments, []arrow.Seg{seg(49, 100)})
}

func TestBuildDropsHitWithNoSegmentsLeft(t *testing.T) {
	raw := []RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 2)}, RawScore: 10},
	}
	segSpec := rhconfig.SegSpec{MinSegLength: 5}
	l := Build(raw, rhconfig.DefaultScoreSpec, segSpec)
	expect.EQ(t, l.Len(), 0)
}

func TestPruneDominatedDuplicates(t *testing.T) {
	raw := []RawHit{
		{Label: "weak", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 3},
		{Label: "strong", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 9},
	}
	l := Build(raw, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec)
	l.Prune()
	expect.EQ(t, l.Len(), 1)
	expect.EQ(t, l.Label(0), "strong")
}

func TestScoreNegLog10Evalue(t *testing.T) {
	raw := []RawHit{{Label: "a", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 0.01}}
	spec := rhconfig.ScoreSpec{Kind: rhconfig.ScoreNegLog10Evalue}
	l := Build(raw, spec, rhconfig.DefaultSegSpec)
	expect.EQ(t, l.At(0).Score, 2.0)
}

func TestIndicesStoppingInRange(t *testing.T) {
	raw := []RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 1},
		{Label: "b", Segments: []arrow.Seg{seg(5, 20)}, RawScore: 1},
		{Label: "c", Segments: []arrow.Seg{seg(25, 40)}, RawScore: 1},
	}
	l := Build(raw, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec)
	idxs := l.IndicesStoppingInRange(0, 20)
	expect.EQ(t, len(idxs), 2)
}
