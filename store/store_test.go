package store

import (
	"errors"
	"path/filepath"
	"testing"

	"audiobook-pipeline/partition"
	"audiobook-pipeline/types"
)

func testRun(t *testing.T) Run {
	t.Helper()
	return Run{
		OutputRoot: t.TempDir(),
		Director:   "abc12345",
		Book:       "moby-dick",
		Chapter:    3,
	}
}

func TestPathsAreScopedByRun(t *testing.T) {
	run := testRun(t)

	want := filepath.Join(run.OutputRoot, "abc12345", "moby-dick", "chapter_03")
	if got := run.ChapterDir(); got != want {
		t.Fatalf("ChapterDir = %q, want %q", got, want)
	}
	if got := run.SectionShotsPath(7); filepath.Base(got) != "section_07_shots.json" {
		t.Fatalf("SectionShotsPath(7) = %q", got)
	}
	if got := run.CombinedShotsPath(); filepath.Base(got) != "chapter_shots.json" {
		t.Fatalf("CombinedShotsPath = %q", got)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	run := testRun(t)

	in := &types.Shots{
		Duration:     12.5,
		SegmentCount: 6,
		ShotCount:    2,
		Shots: []types.Shot{
			{ShotID: 0, Title: "wide", Duration: 5, SegmentCount: 3},
			{ShotID: 1, Title: "close", Duration: 7.5, SegmentCount: 3},
		},
	}
	if err := SaveJSON(run.SectionShotsPath(0), in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out types.Shots
	if err := LoadJSON(run.SectionShotsPath(0), &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.ShotCount != 2 || out.Shots[1].Title != "close" {
		t.Fatalf("round trip lost data: %+v", out)
	}
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	run := testRun(t)
	path := run.SectionShotsPath(0)

	if err := SaveJSON(path, &types.Shots{ShotCount: 5}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := SaveJSON(path, &types.Shots{ShotCount: 1}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var out types.Shots
	if err := LoadJSON(path, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.ShotCount != 1 {
		t.Fatalf("expected overwrite to win, got shot count %d", out.ShotCount)
	}
}

func TestLoadAllSectionShotsMissingFileIsFatal(t *testing.T) {
	run := testRun(t)

	// sections 0 and 2 exist, 1 is missing
	if err := SaveJSON(run.SectionShotsPath(0), &types.Shots{ShotCount: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := SaveJSON(run.SectionShotsPath(2), &types.Shots{ShotCount: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}

	sets, err := run.LoadAllSectionShots(3)
	if sets != nil {
		t.Fatalf("expected no partial result when a section file is missing")
	}

	var missing *partition.MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingInputError, got %v", err)
	}
	if missing.Section != 1 {
		t.Fatalf("expected error naming section 1, got section %d", missing.Section)
	}
}

func TestLoadAllSectionShotsInOrder(t *testing.T) {
	run := testRun(t)

	for i := 0; i < 3; i++ {
		if err := SaveJSON(run.SectionShotsPath(i), &types.Shots{ShotCount: i + 1}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	sets, err := run.LoadAllSectionShots(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, set := range sets {
		if set.ShotCount != i+1 {
			t.Fatalf("set %d out of order: shot count %d", i, set.ShotCount)
		}
	}
}
