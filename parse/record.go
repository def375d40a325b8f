// Package parse reads external hit formats (raw score/e-value lines,
// HMMER --domtblout, and HMMER plain hmmsearch output) and turns each
// into a parse.Record ready for a readproc.Manager.
package parse

import "github.com/grailbio/resolvehits/hit"

// Record pairs a parsed hit with the query it belongs to. Parsers emit
// these in file order via an Emitter rather than building a slice, so a
// caller can stream straight into a readproc.Manager without buffering an
// entire file.
type Record struct {
	QueryID string
	Hit     hit.RawHit
}

// Emitter receives one Record at a time, in the order it was parsed. An
// Emitter that returns an error aborts the parse (propagated to the
// parser's own caller): a record-level failure is fatal to the whole run,
// not a skip-and-continue condition.
type Emitter func(Record) error
