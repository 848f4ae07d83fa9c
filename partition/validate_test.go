package partition

import (
	"errors"
	"testing"
)

func TestValidCoveragePasses(t *testing.T) {
	spans := []Span{
		{Start: 0, End: 4, Label: "opening"},
		{Start: 5, End: 9, Label: "closing"},
	}
	if err := ValidateContiguousCoverage(spans, 0, 9); err != nil {
		t.Fatalf("expected valid coverage, got %v", err)
	}
}

func TestSingleSpanCoversWholeRange(t *testing.T) {
	spans := []Span{{Start: 10, End: 20, Label: "everything"}}
	if err := ValidateContiguousCoverage(spans, 10, 20); err != nil {
		t.Fatalf("expected valid coverage, got %v", err)
	}
}

func TestGapRaisesBoundaryGapError(t *testing.T) {
	// segments 0..9, proposal skips id 5
	spans := []Span{
		{Start: 0, End: 4, Label: "first"},
		{Start: 6, End: 9, Label: "second"},
	}
	err := ValidateContiguousCoverage(spans, 0, 9)

	var gap *BoundaryGapError
	if !errors.As(err, &gap) {
		t.Fatalf("expected BoundaryGapError, got %v", err)
	}
	if gap.Expected != 5 || gap.Actual != 6 {
		t.Fatalf("expected gap citing expected 5 got 6, have expected %d got %d", gap.Expected, gap.Actual)
	}
	if gap.Label != "second" {
		t.Fatalf("expected offending label %q, got %q", "second", gap.Label)
	}
}

func TestOverlapRaisesBoundaryGapError(t *testing.T) {
	spans := []Span{
		{Start: 0, End: 4, Label: "first"},
		{Start: 4, End: 9, Label: "second"},
	}
	err := ValidateContiguousCoverage(spans, 0, 9)

	var gap *BoundaryGapError
	if !errors.As(err, &gap) {
		t.Fatalf("expected BoundaryGapError for overlap, got %v", err)
	}
	if gap.Expected != 5 || gap.Actual != 4 {
		t.Fatalf("expected 5 vs actual 4, have expected %d actual %d", gap.Expected, gap.Actual)
	}
}

func TestShortfallRaisesCoverageError(t *testing.T) {
	// segments 0..9, proposal ends at 8
	spans := []Span{
		{Start: 0, End: 4, Label: "first"},
		{Start: 5, End: 8, Label: "second"},
	}
	err := ValidateContiguousCoverage(spans, 0, 9)

	var cov *CoverageError
	if !errors.As(err, &cov) {
		t.Fatalf("expected CoverageError, got %v", err)
	}
	if cov.Expected != 9 || cov.Actual != 8 {
		t.Fatalf("expected coverage citing expected 9 got 8, have expected %d got %d", cov.Expected, cov.Actual)
	}
	if cov.Label != "second" {
		t.Fatalf("expected last label %q, got %q", "second", cov.Label)
	}
}

func TestOutOfOrderSpansAreRejectedNotSorted(t *testing.T) {
	// Both ranges are valid, but reversed. Order is a precondition, so this
	// must fail at the first span rather than being quietly re-sorted.
	spans := []Span{
		{Start: 5, End: 9, Label: "later"},
		{Start: 0, End: 4, Label: "earlier"},
	}
	err := ValidateContiguousCoverage(spans, 0, 9)

	var gap *BoundaryGapError
	if !errors.As(err, &gap) {
		t.Fatalf("expected BoundaryGapError, got %v", err)
	}
	if gap.Label != "later" || gap.Expected != 0 || gap.Actual != 5 {
		t.Fatalf("expected failure at first span (expected 0, got 5), have label %q expected %d actual %d",
			gap.Label, gap.Expected, gap.Actual)
	}
}

func TestEmptyProposalRaisesCoverageError(t *testing.T) {
	err := ValidateContiguousCoverage(nil, 0, 9)

	var cov *CoverageError
	if !errors.As(err, &cov) {
		t.Fatalf("expected CoverageError for empty proposal, got %v", err)
	}
	if cov.Expected != 9 || cov.Actual != -1 {
		t.Fatalf("expected end 9 vs actual -1, have expected %d actual %d", cov.Expected, cov.Actual)
	}
}

func TestNonZeroBaseRange(t *testing.T) {
	spans := []Span{
		{Start: 42, End: 50, Label: "a"},
		{Start: 51, End: 60, Label: "b"},
	}
	if err := ValidateContiguousCoverage(spans, 42, 60); err != nil {
		t.Fatalf("expected valid coverage on non-zero base, got %v", err)
	}

	err := ValidateContiguousCoverage(spans, 41, 60)
	var gap *BoundaryGapError
	if !errors.As(err, &gap) {
		t.Fatalf("expected BoundaryGapError when first span misses base, got %v", err)
	}
}
