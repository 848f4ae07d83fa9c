package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"audiobook-pipeline/config"
	"audiobook-pipeline/types"
)

// Renderer assembles the chapter video from shot images and narration audio
type Renderer struct {
	cfg *config.Config
}

// New creates a new Renderer
func New(cfg *config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Run builds the final video: one camera-motion clip per shot, concatenated
// and muxed with the chapter audio. Clip lengths follow shot durations, so
// the picture stays in sync with the narration.
func (r *Renderer) Run(ctx context.Context, set *types.Shots, audioFile, outputDir string) (string, error) {
	log.Printf("[render] Rendering %d shots (%.0fs)...", set.ShotCount, set.Duration)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	// Step 1: one motion clip per shot
	var clips []string
	for i := range set.Shots {
		shot := &set.Shots[i]
		if shot.ImageFile == "" {
			return "", fmt.Errorf("shot %d has no image — run the images stage first", shot.ShotID)
		}
		clip, err := r.renderShotClip(ctx, shot, outputDir)
		if err != nil {
			return "", fmt.Errorf("shot %d clip: %w", shot.ShotID, err)
		}
		clips = append(clips, clip)
		log.Printf("[render] Shot %d/%d: %.1fs clip ready", i+1, set.ShotCount, shot.Duration)
	}

	// Step 2: concatenate clips in shot order
	silentVideo, err := r.concatenateClips(ctx, clips, outputDir)
	if err != nil {
		return "", fmt.Errorf("concatenate clips: %w", err)
	}

	// Step 3: mux with chapter narration
	finalVideo, err := r.combineVideoAudio(ctx, silentVideo, audioFile, outputDir)
	if err != nil {
		return "", fmt.Errorf("combine video+audio: %w", err)
	}

	log.Printf("[render] ✅ Final video ready: %s", finalVideo)
	return finalVideo, nil
}

// renderShotClip applies the shot's camera motion to its still image for
// exactly the shot's duration. A shot carrying its own ffmpeg effects from
// the enrichment pass uses those; otherwise a slow ken-burns zoom.
func (r *Renderer) renderShotClip(ctx context.Context, shot *types.Shot, outputDir string) (string, error) {
	outFile := filepath.Join(outputDir, fmt.Sprintf("shot_clip_%03d.mp4", shot.ShotID))

	duration := shot.Duration
	if duration <= 0 {
		duration = 5.0
	}

	filter := shot.FFmpegEffects
	if filter == "" {
		filter = r.kenBurnsFilter(duration)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-loop", "1",
		"-i", shot.ImageFile,
		"-vf", filter,
		"-t", fmt.Sprintf("%.3f", duration),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		outFile,
	)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg shot clip: %w", err)
	}
	return outFile, nil
}

// kenBurnsFilter builds a slow zoom-in zoompan filter for the duration.
func (r *Renderer) kenBurnsFilter(duration float64) string {
	zoom := r.cfg.Render.KenBurnsZoomFactor
	fps := r.cfg.Render.FPS
	totalFrames := int(duration * float64(fps))
	if totalFrames < 1 {
		totalFrames = 1
	}

	zoomStep := (zoom - 1.0) / float64(totalFrames)
	return fmt.Sprintf(
		"scale=3840:2160,zoompan=z='min(zoom+%.6f,%.3f)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:fps=%d,scale=%s",
		zoomStep, zoom, totalFrames, fps, strings.Replace(r.cfg.Render.VideoResolution, "x", ":", 1),
	)
}

// concatenateClips joins all shot clips in order
func (r *Renderer) concatenateClips(ctx context.Context, clips []string, outputDir string) (string, error) {
	log.Println("[render] Concatenating shot clips...")

	if len(clips) == 0 {
		return "", fmt.Errorf("no shot clips to concatenate")
	}

	listFile := filepath.Join(outputDir, "clips_concat.txt")
	var lines []string
	for _, c := range clips {
		lines = append(lines, fmt.Sprintf("file '%s'", c))
	}
	if err := os.WriteFile(listFile, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return "", err
	}

	outFile := filepath.Join(outputDir, "visuals_raw.mp4")
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		outFile,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg concat clips: %w", err)
	}
	return outFile, nil
}

// combineVideoAudio merges the final video and narration audio into one MP4
func (r *Renderer) combineVideoAudio(ctx context.Context, videoFile, audioFile, outputDir string) (string, error) {
	log.Println("[render] Combining video + audio...")

	outFile := filepath.Join(outputDir, "chapter_final.mp4")

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoFile,
		"-i", audioFile,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart", // optimize for web streaming
		outFile,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg combine: %w", err)
	}
	return outFile, nil
}
