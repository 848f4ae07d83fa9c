package split

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"audiobook-pipeline/config"
)

// Splitter cuts a book MP3 into chapter-sized chunks with ffmpeg
type Splitter struct {
	cfg *config.Config
}

// New creates a new Splitter
func New(cfg *config.Config) *Splitter {
	return &Splitter{cfg: cfg}
}

// Run splits bookFile into chunks of roughly ChunkTargetSec seconds and
// returns the chunk paths in order.
func (s *Splitter) Run(ctx context.Context, bookFile, outputDir string) ([]string, error) {
	log.Printf("[split] Splitting %s into ~%ds chunks...", filepath.Base(bookFile), s.cfg.Split.ChunkTargetSec)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create split dir: %w", err)
	}

	total, err := GetAudioDuration(bookFile)
	if err != nil {
		return nil, fmt.Errorf("probe book duration: %w", err)
	}
	log.Printf("[split] Book duration: %.0fs", total)

	pattern := filepath.Join(outputDir, "chapter_%03d."+s.cfg.Split.OutputFormat)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", bookFile,
		"-f", "segment",
		"-segment_time", fmt.Sprintf("%d", s.cfg.Split.ChunkTargetSec),
		"-reset_timestamps", "1",
		"-c", "copy",
		pattern,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg segment split: %w", err)
	}

	chunks, err := filepath.Glob(filepath.Join(outputDir, "chapter_*."+s.cfg.Split.OutputFormat))
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no chunks in %s", outputDir)
	}
	sort.Strings(chunks)

	log.Printf("[split] ✅ %d chunks written to %s", len(chunks), outputDir)
	return chunks, nil
}

// GetAudioDuration uses ffprobe to get accurate audio duration in seconds
func GetAudioDuration(audioFile string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}
