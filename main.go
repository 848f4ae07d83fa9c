package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	split "audiobook-pipeline/01_split"
	transcribe "audiobook-pipeline/02_transcribe"
	sections "audiobook-pipeline/03_sections"
	shots "audiobook-pipeline/04_shots"
	prompts "audiobook-pipeline/05_prompts"
	images "audiobook-pipeline/06_images"
	render "audiobook-pipeline/07_render"
	upload "audiobook-pipeline/08_upload"
	"audiobook-pipeline/config"
	"audiobook-pipeline/store"
	"audiobook-pipeline/types"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const usage = `audiobook-pipeline — turn an audiobook chapter into an illustrated film

Usage: audiobook-pipeline <command> [flags]

Commands:
  split       split the book MP3 into chapter chunks
  transcribe  transcribe one chapter chunk into timestamped segments
  sections    partition the chapter transcript into narrative sections
  shots       generate camera shots for one section (-section N) or all
  combine     combine per-section shot files into the chapter shot list
  prompts     generate image prompts (and camera effects) for the chapter shots
  images      generate, pick and upscale an image per shot
  render      assemble the chapter film with ffmpeg
  upload      publish the chapter film to YouTube
  all         sections → shots → combine → prompts → images → render

Flags:
  -config     path to config.yaml (default "config.yaml")
  -book       book identifier (required)
  -chapter    chapter number (default 0)
  -director   run/session identifier (default: fresh uuid prefix)
  -audio      book MP3 path (split command only)
  -section    section index for the shots command (-1 = all)
`

func main() {
	// Load .env (local dev only — CI uses secrets)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to config.yaml")
	book := fs.String("book", "", "book identifier")
	chapter := fs.Int("chapter", 0, "chapter number")
	director := fs.String("director", "", "run/session identifier")
	audioFile := fs.String("audio", "", "book MP3 path (split only)")
	sectionIdx := fs.Int("section", -1, "section index for shots (-1 = all)")
	_ = fs.Parse(os.Args[2:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *book == "" {
		log.Fatalf("-book is required")
	}
	if *director == "" {
		*director = uuid.NewString()[:8]
		log.Printf("🎬 New director session: %s", *director)
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}

	run := store.Run{
		OutputRoot: cfg.Paths.Output,
		Director:   *director,
		Book:       *book,
		Chapter:    *chapter,
	}

	ctx := context.Background()

	switch command {
	case "split":
		err = runSplit(ctx, cfg, run, *audioFile)
	case "transcribe":
		err = runTranscribe(ctx, cfg, run)
	case "sections":
		err = runSections(ctx, cfg, run)
	case "shots":
		err = runShots(ctx, cfg, run, *sectionIdx)
	case "combine":
		err = runCombine(cfg, run)
	case "prompts":
		err = runPrompts(ctx, cfg, run)
	case "images":
		err = runImages(ctx, cfg, run)
	case "render":
		err = runRender(ctx, cfg, run)
	case "upload":
		err = runUpload(ctx, cfg, run)
	case "all":
		err = runAll(ctx, cfg, run)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("❌ %s failed: %v", command, err)
	}
}

// chunkPath is where the split stage leaves chapter audio.
func chunkPath(run store.Run, cfg *config.Config) string {
	return filepath.Join(run.OutputRoot, run.Director, run.Book, "chunks",
		fmt.Sprintf("chapter_%03d.%s", run.Chapter, cfg.Split.OutputFormat))
}

func runSplit(ctx context.Context, cfg *config.Config, run store.Run, audioFile string) error {
	if audioFile == "" {
		return fmt.Errorf("-audio is required for split")
	}
	chunksDir := filepath.Join(run.OutputRoot, run.Director, run.Book, "chunks")
	_, err := split.New(cfg).Run(ctx, audioFile, chunksDir)
	return err
}

func runTranscribe(ctx context.Context, cfg *config.Config, run store.Run) error {
	transcript, err := transcribe.New(cfg).Run(ctx, chunkPath(run, cfg), run.AudioDir())
	if err != nil {
		return err
	}
	return store.SaveJSON(run.TranscriptPath(), transcript)
}

func runSections(ctx context.Context, cfg *config.Config, run store.Run) error {
	transcript, err := run.LoadTranscript()
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}
	list, err := sections.New(cfg).Run(ctx, transcript)
	if err != nil {
		return err
	}
	return store.SaveJSON(run.SectionsPath(), list)
}

// runShots generates shots for one section, or all sections in index order.
// Sections run strictly one at a time — each Groq call completes before the
// next section starts. A failed section writes nothing.
func runShots(ctx context.Context, cfg *config.Config, run store.Run, sectionIdx int) error {
	list, err := run.LoadSections()
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}

	gen := shots.New(cfg)

	runOne := func(i int) error {
		if i < 0 || i >= list.SectionCount {
			return fmt.Errorf("section %d out of range (chapter has %d sections)", i, list.SectionCount)
		}
		set, err := gen.Run(ctx, &list.Sections[i])
		if err != nil {
			return err
		}
		return store.SaveJSON(run.SectionShotsPath(i), set)
	}

	if sectionIdx >= 0 {
		return runOne(sectionIdx)
	}
	for i := 0; i < list.SectionCount; i++ {
		if err := runOne(i); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	return nil
}

func runCombine(cfg *config.Config, run store.Run) error {
	list, err := run.LoadSections()
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	sets, err := run.LoadAllSectionShots(list.SectionCount)
	if err != nil {
		return err
	}
	combined := shots.Combine(sets)
	return store.SaveJSON(run.CombinedShotsPath(), combined)
}

func runPrompts(ctx context.Context, cfg *config.Config, run store.Run) error {
	var set types.Shots
	if err := store.LoadJSON(run.CombinedShotsPath(), &set); err != nil {
		return fmt.Errorf("load combined shots: %w", err)
	}
	if err := prompts.New(cfg).Run(ctx, &set, run.Book); err != nil {
		return err
	}
	return store.SaveJSON(run.CombinedShotsPath(), &set)
}

func runImages(ctx context.Context, cfg *config.Config, run store.Run) error {
	var set types.Shots
	if err := store.LoadJSON(run.CombinedShotsPath(), &set); err != nil {
		return fmt.Errorf("load combined shots: %w", err)
	}
	if err := images.New(cfg).Run(ctx, &set, run.ImagesDir()); err != nil {
		return err
	}
	return store.SaveJSON(run.CombinedShotsPath(), &set)
}

func runRender(ctx context.Context, cfg *config.Config, run store.Run) error {
	var set types.Shots
	if err := store.LoadJSON(run.CombinedShotsPath(), &set); err != nil {
		return fmt.Errorf("load combined shots: %w", err)
	}
	_, err := render.New(cfg).Run(ctx, &set, chunkPath(run, cfg), run.RenderDir())
	return err
}

func runUpload(ctx context.Context, cfg *config.Config, run store.Run) error {
	videoFile := filepath.Join(run.RenderDir(), "chapter_final.mp4")
	videoID, videoURL, err := upload.New(cfg).Run(ctx, videoFile, run.Book, run.Chapter)
	if err != nil {
		return err
	}
	return upload.LogUpload(videoID, videoURL, videoFile, cfg.Paths.Logs)
}

// runAll chains the chapter stages after transcription, saving pipeline
// state the way every stage artifact is saved: whole file, overwritten.
func runAll(ctx context.Context, cfg *config.Config, run store.Run) error {
	state := &types.PipelineState{
		Director:  run.Director,
		Book:      run.Book,
		Chapter:   run.Chapter,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		AudioFile: chunkPath(run, cfg),
	}
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		if err := store.SaveJSON(run.StatePath(), state); err != nil {
			log.Printf("Warning: could not save pipeline state: %v", err)
		}
	}()

	stages := []struct {
		name string
		fn   func() error
	}{
		{"sections", func() error { return runSections(ctx, cfg, run) }},
		{"shots", func() error { return runShots(ctx, cfg, run, -1) }},
		{"combine", func() error { return runCombine(cfg, run) }},
		{"prompts", func() error { return runPrompts(ctx, cfg, run) }},
		{"images", func() error { return runImages(ctx, cfg, run) }},
		{"render", func() error { return runRender(ctx, cfg, run) }},
	}

	for _, stage := range stages {
		log.Printf("\n━━━ STAGE: %s ━━━", stage.name)
		if err := stage.fn(); err != nil {
			state.Error = fmt.Sprintf("Stage %s: %v", stage.name, err)
			return err
		}
	}

	state.VideoFile = filepath.Join(run.RenderDir(), "chapter_final.mp4")
	log.Printf("✅ Chapter %d complete: %s", run.Chapter, state.VideoFile)
	return nil
}
