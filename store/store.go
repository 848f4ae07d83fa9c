// Package store owns the artifact layout for a pipeline run. The
// partitioning packages stay pure with respect to file paths; anything that
// touches disk for a stage result goes through here.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"audiobook-pipeline/partition"
	"audiobook-pipeline/types"
)

// Run identifies one pipeline run: a director (session) name plus the book
// and chapter being processed. The director id is caller-supplied — commonly
// a uuid prefix generated in main.
type Run struct {
	OutputRoot string
	Director   string
	Book       string
	Chapter    int
}

// ChapterDir is the root for all of this chapter's artifacts.
func (r Run) ChapterDir() string {
	return filepath.Join(r.OutputRoot, r.Director, r.Book, fmt.Sprintf("chapter_%02d", r.Chapter))
}

func (r Run) AudioDir() string { return filepath.Join(r.ChapterDir(), "audio") }

func (r Run) ImagesDir() string { return filepath.Join(r.ChapterDir(), "images") }

func (r Run) RenderDir() string { return filepath.Join(r.ChapterDir(), "render") }

func (r Run) TranscriptPath() string { return filepath.Join(r.ChapterDir(), "transcript.json") }

func (r Run) SectionsPath() string { return filepath.Join(r.ChapterDir(), "sections.json") }

func (r Run) StatePath() string { return filepath.Join(r.ChapterDir(), "pipeline_state.json") }

// SectionShotsPath is the per-section shots file for section index i.
func (r Run) SectionShotsPath(i int) string {
	return filepath.Join(r.ChapterDir(), "shots", fmt.Sprintf("section_%02d_shots.json", i))
}

// CombinedShotsPath is the chapter-level combined shots file.
func (r Run) CombinedShotsPath() string {
	return filepath.Join(r.ChapterDir(), "shots", "chapter_shots.json")
}

// SaveJSON writes v as indented JSON, creating parent directories. Whole-file
// overwrite keeps every stage idempotent.
func SaveJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON reads path into v.
func LoadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LoadTranscript reads the chapter transcript.
func (r Run) LoadTranscript() (*types.Transcript, error) {
	var t types.Transcript
	if err := LoadJSON(r.TranscriptPath(), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadSections reads the validated section list.
func (r Run) LoadSections() (*types.SectionList, error) {
	var list types.SectionList
	if err := LoadJSON(r.SectionsPath(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// LoadAllSectionShots reads every per-section shots file for a chapter with
// sectionCount sections, in section order. A missing file is fatal: the
// combined result must never silently cover fewer sections than the chapter
// has.
func (r Run) LoadAllSectionShots(sectionCount int) ([]*types.Shots, error) {
	sets := make([]*types.Shots, 0, sectionCount)
	for i := 0; i < sectionCount; i++ {
		path := r.SectionShotsPath(i)
		var set types.Shots
		if err := LoadJSON(path, &set); err != nil {
			if os.IsNotExist(err) {
				return nil, &partition.MissingInputError{Section: i, Path: path}
			}
			return nil, err
		}
		sets = append(sets, &set)
	}
	return sets, nil
}
