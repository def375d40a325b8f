// Package process renders resolved query architectures to an external
// format. Every processor implements Processor; a
// readproc.Manager fans a query's result out to each configured processor
// as soon as that query's resolution completes.
package process

import (
	"github.com/grailbio/resolvehits/hit"
	"github.com/grailbio/resolvehits/resolve"
	"github.com/grailbio/resolvehits/rhconfig"
)

// Processor consumes one query's resolved architecture at a time.
// FinishWork is called once, after every query has been processed, so a
// processor can flush buffered output.
type Processor interface {
	ProcessHitsForQuery(queryID string, filterSpec rhconfig.FilterSpec, hitList *hit.HitList, arch resolve.ScoredArchitecture) error
	FinishWork() error
}
