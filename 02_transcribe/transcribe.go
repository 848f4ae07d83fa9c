package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"audiobook-pipeline/config"
	"audiobook-pipeline/types"
)

// Transcriber turns one chapter audio chunk into a timestamped transcript
// using the whisper CLI.
type Transcriber struct {
	cfg *config.Config
}

// New creates a new Transcriber
func New(cfg *config.Config) *Transcriber {
	return &Transcriber{cfg: cfg}
}

// whisperOutput is the JSON whisper writes with --output_format json
type whisperOutput struct {
	Text     string `json:"text"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Run transcribes audioFile and returns a normalized Transcript with
// contiguous segment ids starting at 0.
func (t *Transcriber) Run(ctx context.Context, audioFile, workDir string) (*types.Transcript, error) {
	log.Printf("[transcribe] Running Whisper on %s...", filepath.Base(audioFile))

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx,
		"whisper",
		audioFile,
		"--model", t.cfg.Transcribe.WhisperModel,
		"--output_format", "json",
		"--output_dir", workDir,
		"--language", t.cfg.Transcribe.Language,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("whisper failed: %w", err)
	}

	// Whisper saves as <audioFilename>.json
	base := strings.TrimSuffix(filepath.Base(audioFile), filepath.Ext(audioFile))
	jsonPath := filepath.Join(workDir, base+".json")

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	transcript, err := ParseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	log.Printf("[transcribe] ✅ %d segments, %.0fs", transcript.SegmentCount, transcript.Duration)
	return transcript, nil
}

// ParseWhisperJSON normalizes whisper's JSON output into a Transcript:
// segment ids are reassigned contiguously from 0, text is trimmed, and
// start times must be strictly increasing.
func ParseWhisperJSON(data []byte) (*types.Transcript, error) {
	var raw whisperOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse whisper JSON: %w", err)
	}
	if len(raw.Segments) == 0 {
		return nil, fmt.Errorf("whisper returned no segments")
	}

	transcript := &types.Transcript{}
	var texts []string
	lastStart := -1.0

	for i, s := range raw.Segments {
		if s.End <= s.Start {
			return nil, fmt.Errorf("segment %d has non-positive span (%.2f-%.2f)", i, s.Start, s.End)
		}
		if s.Start <= lastStart {
			return nil, fmt.Errorf("segment %d start %.2f is not after previous start %.2f", i, s.Start, lastStart)
		}
		lastStart = s.Start

		text := strings.TrimSpace(s.Text)
		seg := types.Segment{
			ID:    i,
			Start: s.Start,
			End:   s.End,
			Text:  text,
		}
		transcript.Segments = append(transcript.Segments, seg)
		if text != "" {
			texts = append(texts, text)
		}
	}

	transcript.SegmentCount = len(transcript.Segments)
	transcript.Duration = transcript.Segments[transcript.SegmentCount-1].End - transcript.Segments[0].Start
	transcript.Text = strings.Join(texts, " ")

	return transcript, nil
}
