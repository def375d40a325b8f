// Package rhconfig holds the configuration structs shared across the
// parse/hit/resolve/process pipeline: how raw scores become DP scores, how
// segments get trimmed before overlap checks, and which hits get filtered
// out before a query is resolved.
//
// Each spec struct below is paired with a package-level default instance
// (DefaultScoreSpec, DefaultSegSpec, DefaultFilterSpec), the Opts/DefaultOpts
// idiom of a plain struct of settings plus a default; cmd/resolve-hits fills
// the specs in from its flags.
package rhconfig

import "regexp"

// ScoreKind selects how ScoreSpec derives a DP score from a hit's raw score.
type ScoreKind int

const (
	// ScoreIdentity uses the raw score unchanged.
	ScoreIdentity ScoreKind = iota
	// ScoreNegLog10Evalue treats the raw score as an e-value and computes
	// -log10(evalue).
	ScoreNegLog10Evalue
	// ScoreLinear applies Scale*raw + Offset.
	ScoreLinear
	// ScoreBitscoreDivisor divides a bitscore by BaseBitscoreDivisor,
	// doubled when the hit's e-values are flagged "suspicious" (see
	// SuspiciousEvalueRatio). The divisor does not depend on the hit's
	// domain type.
	ScoreBitscoreDivisor
)

// SuspiciousEvalueRatio is the ratio threshold at or above which an independent
// e-value is considered suspiciously large relative to the conditional
// e-value, per the cath-tools "suspicious e-values" rule (see
// SPEC_FULL.md Open Question #3: preserved from the original tool's
// observed behaviour rather than re-derived).
const SuspiciousEvalueRatio = 100.0

// ScoreSpec configures the raw-score-to-DP-score transform used while
// building a HitList.
type ScoreSpec struct {
	Kind ScoreKind

	// Scale and Offset apply when Kind == ScoreLinear: score = Scale*raw +
	// Offset.
	Scale, Offset float64

	// BaseBitscoreDivisor is the base divisor for Kind ==
	// ScoreBitscoreDivisor; it is doubled when the hit's e-values are
	// flagged suspicious.
	BaseBitscoreDivisor float64
}

// DefaultScoreSpec is the identity transform: DP score equals raw score.
var DefaultScoreSpec = ScoreSpec{Kind: ScoreIdentity, BaseBitscoreDivisor: 1}

// SegSpec configures segment-level trimming and filtering applied while
// building a HitList.
type SegSpec struct {
	// MinSegLength: segments shorter than this (in residues) are dropped
	// before a hit's remaining segments are considered.
	MinSegLength uint32

	// OverlapTrimFraction trims this fraction off each segment's boundary
	// (symmetrically) solely for the purpose of computing DP overlaps; the
	// untrimmed segment is still what's reported to processors.
	OverlapTrimFraction float64
}

// DefaultSegSpec applies no trimming or length filtering.
var DefaultSegSpec = SegSpec{MinSegLength: 1, OverlapTrimFraction: 0}

// FilterSpec configures which raw hits are dropped before they ever reach a
// HitList.
type FilterSpec struct {
	// MinScore: hits whose raw score is below this are dropped. It is
	// applied only when HasMinScore is true; otherwise there is no minimum.
	MinScore float64
	HasMinScore bool

	// QueryIDAllowlist: if non-empty, only these query IDs are processed.
	QueryIDAllowlist map[string]bool

	// QueryIDPattern additionally restricts processing to query IDs
	// matching this pattern, when non-nil (SPEC_FULL.md supplemented
	// feature, modelled on cath-tools' should_skip_query.hpp).
	QueryIDPattern *regexp.Regexp

	// MaxQueries caps the number of distinct queries processed; 0 means
	// unlimited.
	MaxQueries int

	// KeepDominatedDuplicates, when true, disables the HitList pruning of
	// strictly-dominated duplicate hits (same segment ranges, lower
	// score). cmd/resolve-hits sets it from -keep-dominated-duplicates;
	// processors do not set it themselves.
	KeepDominatedDuplicates bool

	// KeepFailingHits, when true, hits that fail MinScore are still passed
	// through to processors instead of being dropped. They are kept like any
	// other hit; nothing marks them as having failed MinScore.
	KeepFailingHits bool
}

// DefaultFilterSpec applies no filtering.
var DefaultFilterSpec = FilterSpec{}

// Allows reports whether queryID passes the allowlist/pattern/max-queries
// filters. seenQueries is the number of distinct queries already admitted;
// callers are responsible for only counting a query once.
func (f FilterSpec) Allows(queryID string, seenQueries int) bool {
	if len(f.QueryIDAllowlist) > 0 && !f.QueryIDAllowlist[queryID] {
		return false
	}
	if f.QueryIDPattern != nil && !f.QueryIDPattern.MatchString(queryID) {
		return false
	}
	if f.MaxQueries > 0 && seenQueries >= f.MaxQueries {
		return false
	}
	return true
}

// PassesScore reports whether rawScore passes the MinScore filter.
func (f FilterSpec) PassesScore(rawScore float64) bool {
	return !f.HasMinScore || rawScore >= f.MinScore
}
