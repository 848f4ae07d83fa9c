package partition

import "fmt"

// BoundaryGapError reports a proposed section or shot that does not begin
// immediately after the previous one's end. Label is the human-readable
// title of the offending item so a defective proposal can be found without
// re-deriving indices.
type BoundaryGapError struct {
	Label    string
	Expected int
	Actual   int
}

func (e *BoundaryGapError) Error() string {
	return fmt.Sprintf("boundary gap at %q: expected start_segment %d, got %d", e.Label, e.Expected, e.Actual)
}

// CoverageError reports a proposal whose last item does not end exactly at
// the expected final segment id.
type CoverageError struct {
	Label    string
	Expected int
	Actual   int
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("incomplete coverage after %q: expected end_segment %d, got %d", e.Label, e.Expected, e.Actual)
}

// EmptySliceError reports a shot whose declared segment range resolves to
// zero segments when sliced from its parent section.
type EmptySliceError struct {
	Label        string
	StartSegment int
	EndSegment   int
}

func (e *EmptySliceError) Error() string {
	return fmt.Sprintf("empty segment slice for %q: range %d-%d resolves to no segments", e.Label, e.StartSegment, e.EndSegment)
}

// MissingInputError reports a per-section shots file that aggregation
// expected but could not find.
type MissingInputError struct {
	Section int
	Path    string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing shots file for section %d: %s", e.Section, e.Path)
}
