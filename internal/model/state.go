package model

// CoverageState describes what a run can emit once all inputs were parsed.
type CoverageState int

const (
	// HasCoverage means the aggregate has at least one source file.
	HasCoverage CoverageState = iota
	// NoCoverageNoProfdata means there is nothing to emit.
	NoCoverageNoProfdata
	// NoCoverageOneProfdata means the single profdata file is copied through.
	NoCoverageOneProfdata
	// NoCoverageMultipleProfdata means the profdata input is ambiguous.
	NoCoverageMultipleProfdata
)

// StateOf returns the state for an aggregate and the number of profdata
// files that were discovered alongside it.
func StateOf(coverage *Coverage, profdataCount int) CoverageState {
	if coverage != nil && !coverage.IsEmpty() {
		return HasCoverage
	}

	switch {
	case profdataCount == 0:
		return NoCoverageNoProfdata
	case profdataCount == 1:
		return NoCoverageOneProfdata
	default:
		return NoCoverageMultipleProfdata
	}
}

func (s CoverageState) String() string {
	switch s {
	case HasCoverage:
		return "has_coverage"
	case NoCoverageNoProfdata:
		return "no_coverage_no_profdata"
	case NoCoverageOneProfdata:
		return "no_coverage_one_profdata"
	case NoCoverageMultipleProfdata:
		return "no_coverage_multiple_profdata"
	}

	return "unknown"
}
