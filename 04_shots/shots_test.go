package shots

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"audiobook-pipeline/partition"
	"audiobook-pipeline/types"
)

// makeSection builds a section covering ids firstID..firstID+n-1, segments
// 2s long, back to back, with per-segment text "w<ID>".
func makeSection(title string, firstID, n int) *types.Section {
	segs := make([]types.Segment, n)
	for i := 0; i < n; i++ {
		start := float64(i) * 2.0
		segs[i] = types.Segment{
			ID:    firstID + i,
			Start: start,
			End:   start + 2.0,
			Text:  "w" + string(rune('0'+((firstID+i)%10))),
		}
	}
	return &types.Section{
		Title:        title,
		StartSegment: firstID,
		EndSegment:   firstID + n - 1,
		Start:        segs[0].Start,
		End:          segs[n-1].End,
		Duration:     segs[n-1].End - segs[0].Start,
		SegmentCount: n,
		Segments:     segs,
	}
}

func TestPartitionSectionMaterializesShots(t *testing.T) {
	section := makeSection("Chase", 10, 8) // ids 10..17
	proposals := []types.BoundaryProposal{
		{Title: "Wide shot", Description: "The street.", StartSegment: 10, EndSegment: 13},
		{Title: "Close-up", Description: "His face.", StartSegment: 14, EndSegment: 17},
	}

	set, err := PartitionSectionIntoShots(section, proposals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.ShotCount != 2 {
		t.Fatalf("expected 2 shots, got %d", set.ShotCount)
	}
	for i, shot := range set.Shots {
		if shot.ShotID != i {
			t.Fatalf("shot %d has local id %d, want %d", i, shot.ShotID, i)
		}
	}

	first := set.Shots[0]
	if first.SegmentCount != 4 {
		t.Fatalf("first shot segment count %d, want 4", first.SegmentCount)
	}
	if first.Text != "w0 w1 w2 w3" {
		t.Fatalf("first shot text %q, want space-joined segment text", first.Text)
	}
	if first.Start != 0 || first.End != 8 {
		t.Fatalf("first shot span %.1f-%.1f, want 0-8", first.Start, first.End)
	}

	if math.Abs(set.Duration-(set.Shots[0].Duration+set.Shots[1].Duration)) > 1e-9 {
		t.Fatalf("set duration %.2f is not the sum of shot durations", set.Duration)
	}
	if set.SegmentCount != 8 {
		t.Fatalf("set segment count %d, want 8", set.SegmentCount)
	}
}

func TestPartitionSectionGapIsFatal(t *testing.T) {
	section := makeSection("s", 0, 10)
	proposals := []types.BoundaryProposal{
		{Title: "one", StartSegment: 0, EndSegment: 4},
		{Title: "two", StartSegment: 6, EndSegment: 9},
	}

	set, err := PartitionSectionIntoShots(section, proposals)
	if set != nil {
		t.Fatalf("expected no partial shot set on failure")
	}

	var gap *partition.BoundaryGapError
	if !errors.As(err, &gap) {
		t.Fatalf("expected BoundaryGapError, got %v", err)
	}
	if gap.Expected != 5 || gap.Actual != 6 {
		t.Fatalf("expected 5 vs 6, got %d vs %d", gap.Expected, gap.Actual)
	}
}

func TestPartitionSectionCoverageIsScopedToSection(t *testing.T) {
	section := makeSection("s", 10, 11) // ids 10..20
	proposals := []types.BoundaryProposal{
		{Title: "one", StartSegment: 10, EndSegment: 19}, // misses 20
	}

	_, err := PartitionSectionIntoShots(section, proposals)

	var cov *partition.CoverageError
	if !errors.As(err, &cov) {
		t.Fatalf("expected CoverageError, got %v", err)
	}
	if cov.Expected != 20 || cov.Actual != 19 {
		t.Fatalf("expected 20 vs 19, got %d vs %d", cov.Expected, cov.Actual)
	}
}

func TestMaterializeOutOfRangeShotIsEmptySlice(t *testing.T) {
	// section spans ids 10..20; a shot claiming 25..26 resolves to nothing
	section := makeSection("s", 10, 11)
	proposals := []types.BoundaryProposal{
		{Title: "ghost", StartSegment: 25, EndSegment: 26},
	}

	_, err := materializeShots(section, proposals)

	var empty *partition.EmptySliceError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptySliceError, got %v", err)
	}
	if empty.StartSegment != 25 || empty.EndSegment != 26 {
		t.Fatalf("expected error citing range 25-26, got %d-%d", empty.StartSegment, empty.EndSegment)
	}
}

func TestInvertedRangeSurvivingValidationIsEmptySlice(t *testing.T) {
	// An inverted first range can slip through the boundary walk when the
	// following span picks up from its end. Materialization must catch it.
	section := makeSection("s", 10, 11)
	proposals := []types.BoundaryProposal{
		{Title: "inverted", StartSegment: 10, EndSegment: 8},
		{Title: "rest", StartSegment: 9, EndSegment: 20},
	}

	_, err := PartitionSectionIntoShots(section, proposals)

	var empty *partition.EmptySliceError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptySliceError, got %v", err)
	}
	if empty.Label != "inverted" {
		t.Fatalf("expected offending label %q, got %q", "inverted", empty.Label)
	}
}

func TestPartitionSectionIsDeterministic(t *testing.T) {
	section := makeSection("s", 0, 8)
	proposals := []types.BoundaryProposal{
		{Title: "a", StartSegment: 0, EndSegment: 3},
		{Title: "b", StartSegment: 4, EndSegment: 7},
	}

	first, err := PartitionSectionIntoShots(section, proposals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := PartitionSectionIntoShots(section, proposals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-running materialization changed the result")
	}
}

func TestJoinSegmentTextSkipsEmpty(t *testing.T) {
	segs := []types.Segment{
		{Text: "hello"},
		{Text: "   "},
		{Text: "world"},
	}
	if got := joinSegmentText(segs); got != "hello world" {
		t.Fatalf("joinSegmentText got %q", got)
	}
}

func TestTargetShotCountRoundsUp(t *testing.T) {
	cases := []struct {
		segments, perShot, want int
	}{
		{8, 4, 2},
		{9, 4, 3},
		{3, 4, 1},
		{1, 0, 1},
	}
	for _, c := range cases {
		if got := targetShotCount(c.segments, c.perShot); got != c.want {
			t.Fatalf("targetShotCount(%d, %d) = %d, want %d", c.segments, c.perShot, got, c.want)
		}
	}
}
