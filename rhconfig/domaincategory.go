package rhconfig

// EvaluesAreSuspicious implements the cath-tools "suspicious e-values" rule
// applied by hit.Build's ScoreBitscoreDivisor transform (SPEC_FULL.md Open
// Question #3): an
// independent e-value that is far larger than the conditional e-value for
// the same hit indicates the two values disagree enough that the bitscore
// divisor used to compute a DP score should be inflated.
func EvaluesAreSuspicious(condEvalue, indepEvalue float64) bool {
	if condEvalue <= 0 {
		return false
	}
	return indepEvalue >= SuspiciousEvalueRatio*condEvalue
}

// BitscoreDivisor returns the divisor ScoreSpec.Kind ==
// ScoreBitscoreDivisor should apply to a raw bitscore, given whether its
// e-values were flagged suspicious.
func (s ScoreSpec) BitscoreDivisor(suspicious bool) float64 {
	d := s.BaseBitscoreDivisor
	if d <= 0 {
		d = 1
	}
	if suspicious {
		d *= 2
	}
	return d
}
