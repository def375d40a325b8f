package process

import (
	"encoding/json"
	"io"
	"sort"
	"sync"

	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/resolve"
	"github.com/grailbio/resolvehits/rhconfig"
)

// jsonHit is one surviving hit in a JSON-rendered architecture.
type jsonHit struct {
	Label    string    `json:"label"`
	Score    float64   `json:"score"`
	Segments []segSpec `json:"segments"`
}

// jsonQuery is one query's resolved architecture.
type jsonQuery struct {
	QueryID string    `json:"query_id"`
	Score   float64   `json:"score"`
	Hits    []jsonHit `json:"hits"`
}

// JSON renders every query's resolved architecture as a single JSON array,
// written on FinishWork. Results are buffered per query and sorted by
// query ID before marshalling, so the emitted array's order is
// lexicographic by query id and independent of processing order, since
// this processor owns its own output document rather than relying solely
// on the manager's iteration order.
type JSON struct {
	w io.Writer

	mu      sync.Mutex
	queries []jsonQuery
}

// NewJSON returns a JSON processor writing the final array to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

// ProcessHitsForQuery implements Processor.
func (j *JSON) ProcessHitsForQuery(queryID string, filterSpec rhconfig.FilterSpec, hitList *hit.HitList, arch resolve.ScoredArchitecture) error {
	hits := make([]jsonHit, len(arch.Hits))
	for i, h := range arch.Hits {
		hits[i] = jsonHit{Label: arch.Labels[i], Score: h.Score, Segments: toSegSpecs(h.Segments)}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.queries = append(j.queries, jsonQuery{QueryID: queryID, Score: arch.Score, Hits: hits})
	return nil
}

// FinishWork implements Processor, marshalling the accumulated queries.
func (j *JSON) FinishWork() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	sort.Slice(j.queries, func(a, b int) bool { return j.queries[a].QueryID < j.queries[b].QueryID })

	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.queries)
}
