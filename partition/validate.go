// Package partition holds the boundary validation shared by the section and
// shot partitioners, and the error kinds their failures surface with.
package partition

// Span is one proposed contiguous segment range. Label carries the
// proposal's title purely for error reporting.
type Span struct {
	Start int
	End   int
	Label string
}

// ValidateContiguousCoverage checks that spans tile the segment id range
// [expectedFirst, expectedLast] exactly once, in the order given. The order
// is deliberately taken as given and never re-sorted: a proposal that
// returns spans out of narrative order is a gap at the first mismatch, not
// something to silently fix.
func ValidateContiguousCoverage(spans []Span, expectedFirst, expectedLast int) error {
	lastEnd := expectedFirst - 1
	lastLabel := ""

	for _, s := range spans {
		if s.Start != lastEnd+1 {
			return &BoundaryGapError{Label: s.Label, Expected: lastEnd + 1, Actual: s.Start}
		}
		lastEnd = s.End
		lastLabel = s.Label
	}

	if lastEnd != expectedLast {
		return &CoverageError{Label: lastLabel, Expected: expectedLast, Actual: lastEnd}
	}
	return nil
}
