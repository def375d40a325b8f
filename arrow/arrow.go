// Package arrow implements the half-open interval algebra that the rest of
// resolvehits is built on.
//
// An Arrow is a position *between* two residues, not a residue itself: Arrow
// 0 is before the first residue, Arrow n is between residue n and residue
// n+1. This means a Seg (segment) [start, stop) of residues 1..n is
// represented as the pair of arrows (0, n), and residue length is simply
// stop-start with no off-by-one adjustment.
package arrow

// Arrow is a position between two residues. Arrow(i) lies between residue i
// and residue i+1 (1-based residues), so the first possible residue index is
// bounded by Arrow(0).
type Arrow uint32

// Pred returns the arrow immediately before a.
//
// REQUIRES: a > 0.
func (a Arrow) Pred() Arrow { return a - 1 }

// Succ returns the arrow immediately after a.
func (a Arrow) Succ() Arrow { return a + 1 }

// Before reports whether a strictly precedes b.
func (a Arrow) Before(b Arrow) bool { return a < b }

// ArrowBeforeRes returns the arrow immediately before (1-based) residue n,
// i.e. the arrow at index n-1.
func ArrowBeforeRes(n uint32) Arrow { return Arrow(n - 1) }

// ArrowAfterRes returns the arrow immediately after (1-based) residue n,
// i.e. the arrow at index n.
func ArrowAfterRes(n uint32) Arrow { return Arrow(n) }

// Index returns the underlying integer index of a, for use as a slice
// index in DP tables.
func (a Arrow) Index() int { return int(a) }
