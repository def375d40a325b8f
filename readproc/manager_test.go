package readproc

import (
	"sync"
	"testing"

	"github.com/grailbio/resolvehits/arrow"
	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/process"
	"github.com/grailbio/resolvehits/resolve"
	"github.com/grailbio/resolvehits/rhconfig"
	"github.com/grailbio/testutil/expect"
)

// recordingProcessor is a Processor that records every call it sees, for
// assertions in tests below. Safe for concurrent use since Manager may
// dispatch to it from its background worker.
type recordingProcessor struct {
	mu       sync.Mutex
	queries  []string
	scores   map[string]float64
	finished bool
}

func newRecordingProcessor() *recordingProcessor {
	return &recordingProcessor{scores: make(map[string]float64)}
}

func (p *recordingProcessor) ProcessHitsForQuery(queryID string, _ rhconfig.FilterSpec, _ *hit.HitList, arch resolve.ScoredArchitecture) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, queryID)
	p.scores[queryID] = arch.Score
	return nil
}

func (p *recordingProcessor) FinishWork() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
	return nil
}

func (p *recordingProcessor) snapshot() ([]string, map[string]float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	qs := append([]string(nil), p.queries...)
	sc := make(map[string]float64, len(p.scores))
	for k, v := range p.scores {
		sc[k] = v
	}
	return qs, sc
}

func seg(a, b uint32) arrow.Seg { return arrow.Seg{Start: arrow.Arrow(a), Stop: arrow.Arrow(b)} }

func TestManagerBasicAddAndProcess(t *testing.T) {
	rec := newRecordingProcessor()
	m := NewManager([]process.Processor{rec}, rhconfig.DefaultFilterSpec, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec, false, false)

	m.AddHit("q1", hit.RawHit{Label: "a", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 10})
	m.AddHit("q1", hit.RawHit{Label: "b", Segments: []arrow.Seg{seg(19, 30)}, RawScore: 5})
	m.AddHit("q2", hit.RawHit{Label: "c", Segments: []arrow.Seg{seg(0, 5)}, RawScore: 2})

	expect.NoError(t, m.ProcessAllOutstanding())

	qs, scores := rec.snapshot()
	expect.EQ(t, len(qs), 2)
	expect.EQ(t, scores["q1"], 15.0)
	expect.EQ(t, scores["q2"], 2.0)
	expect.True(t, rec.finished)
}

func TestManagerDropsHitsFailingMinScore(t *testing.T) {
	rec := newRecordingProcessor()
	fs := rhconfig.FilterSpec{MinScore: 4, HasMinScore: true}
	m := NewManager([]process.Processor{rec}, fs, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec, false, false)

	m.AddHit("q1", hit.RawHit{Label: "a", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 10})
	m.AddHit("q1", hit.RawHit{Label: "low", Segments: []arrow.Seg{seg(19, 30)}, RawScore: 1})

	expect.NoError(t, m.ProcessAllOutstanding())

	_, scores := rec.snapshot()
	expect.EQ(t, scores["q1"], 10.0)
}

func TestManagerDropsDisallowedQueries(t *testing.T) {
	rec := newRecordingProcessor()
	fs := rhconfig.FilterSpec{QueryIDAllowlist: map[string]bool{"q1": true}}
	m := NewManager([]process.Processor{rec}, fs, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec, false, false)

	m.AddHit("q1", hit.RawHit{Label: "a", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 10})
	m.AddHit("q2", hit.RawHit{Label: "b", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 10})

	expect.NoError(t, m.ProcessAllOutstanding())

	qs, _ := rec.snapshot()
	expect.EQ(t, len(qs), 1)
	expect.EQ(t, qs[0], "q1")
}

// Grouped-input dispatch must produce the same per-query results as
// non-grouped processing, since grouping is only a streaming optimisation.
func TestManagerGroupedMatchesNonGrouped(t *testing.T) {
	raw := []hit.RawHit{
		{Label: "a", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 10},
		{Label: "b", Segments: []arrow.Seg{seg(19, 30)}, RawScore: 5},
		{Label: "c", Segments: []arrow.Seg{seg(0, 5)}, RawScore: 2},
		{Label: "d", Segments: []arrow.Seg{seg(0, 5)}, RawScore: 7},
	}

	groupedScores := func() map[string]float64 {
		rec := newRecordingProcessor()
		m := NewManager([]process.Processor{rec}, rhconfig.DefaultFilterSpec, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec, true, false)
		m.AddHit("q1", raw[0])
		m.AddHit("q1", raw[1])
		m.AddHit("q2", raw[2])
		m.AddHit("q3", raw[3])
		expect.NoError(t, m.ProcessAllOutstanding())
		_, scores := rec.snapshot()
		return scores
	}()

	ungroupedScores := func() map[string]float64 {
		rec := newRecordingProcessor()
		m := NewManager([]process.Processor{rec}, rhconfig.DefaultFilterSpec, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec, false, false)
		m.AddHit("q1", raw[0])
		m.AddHit("q1", raw[1])
		m.AddHit("q2", raw[2])
		m.AddHit("q3", raw[3])
		expect.NoError(t, m.ProcessAllOutstanding())
		_, scores := rec.snapshot()
		return scores
	}()

	expect.EQ(t, groupedScores["q1"], ungroupedScores["q1"])
	expect.EQ(t, groupedScores["q2"], ungroupedScores["q2"])
	expect.EQ(t, groupedScores["q3"], ungroupedScores["q3"])
}

func TestManagerPanicsOnAddAfterHandoff(t *testing.T) {
	rec := newRecordingProcessor()
	m := NewManager([]process.Processor{rec}, rhconfig.DefaultFilterSpec, rhconfig.DefaultScoreSpec, rhconfig.DefaultSegSpec, true, false)

	m.AddHit("q1", hit.RawHit{Label: "a", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 10})
	// Switching to q2 while grouped hands q1 off to the background worker.
	m.AddHit("q2", hit.RawHit{Label: "b", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 10})
	m.worker.join()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for AddHit on a query already handed off")
		}
	}()
	m.AddHit("q1", hit.RawHit{Label: "c", Segments: []arrow.Seg{seg(0, 10)}, RawScore: 1})
}
