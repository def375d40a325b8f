package process

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/resolve"
	"github.com/grailbio/resolvehits/rhconfig"
)

// PlainText renders resolved architectures as a tab-aligned table, one row
// per surviving hit, grounded on the biogo brahma tool's
// text/tabwriter-based annotation report.
type PlainText struct {
	mu          sync.Mutex
	tw          *tabwriter.Writer
	wroteHeader bool
}

// NewPlainText returns a PlainText processor writing to w.
func NewPlainText(w io.Writer) *PlainText {
	return &PlainText{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

// ProcessHitsForQuery implements Processor.
func (p *PlainText) ProcessHitsForQuery(queryID string, filterSpec rhconfig.FilterSpec, hitList *hit.HitList, arch resolve.ScoredArchitecture) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.wroteHeader {
		fmt.Fprintln(p.tw, "query-id\tlabel\tscore\tsegments")
		p.wroteHeader = true
	}
	for i, h := range arch.Hits {
		fmt.Fprintf(p.tw, "%s\t%s\t%g\t%s\n", queryID, arch.Labels[i], h.Score, formatSegments(h.Segments))
	}
	return nil
}

// FinishWork implements Processor, flushing the tabwriter.
func (p *PlainText) FinishWork() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tw.Flush()
}
