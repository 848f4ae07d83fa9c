package images

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"audiobook-pipeline/config"
	"audiobook-pipeline/types"
)

// Fetcher generates AI images via Pollinations.ai (free, no key needed)
type Fetcher struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new Fetcher
func New(cfg *config.Config) *Fetcher {
	return &Fetcher{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Run generates variations for every shot, picks one, and upscales it to the
// render resolution. The chosen file lands in shot.ImageFile.
func (f *Fetcher) Run(ctx context.Context, set *types.Shots, outputDir string) error {
	log.Printf("[images] Generating images for %d shots...", set.ShotCount)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for i := range set.Shots {
		shot := &set.Shots[i]
		if shot.ImagePrompt == "" {
			return fmt.Errorf("shot %d has no image prompt — run the prompts stage first", shot.ShotID)
		}

		picked, err := f.fetchVariations(ctx, shot, outputDir)
		if err != nil {
			return fmt.Errorf("shot %d images: %w", shot.ShotID, err)
		}

		final, err := f.upscale(ctx, picked, shot, outputDir)
		if err != nil {
			return fmt.Errorf("shot %d upscale: %w", shot.ShotID, err)
		}
		shot.ImageFile = final

		log.Printf("[images] ✅ Shot %d/%d: %s", i+1, set.ShotCount, filepath.Base(final))
	}

	return nil
}

// fetchVariations downloads VariationCount seeds for the shot and picks the
// largest response, which in practice filters out Pollinations' occasional
// near-empty error images.
func (f *Fetcher) fetchVariations(ctx context.Context, shot *types.Shot, outputDir string) (string, error) {
	var best string
	var bestSize int64

	for v := 0; v < f.cfg.Images.VariationCount; v++ {
		// deterministic seed per shot+variation for reproducibility
		seed := shot.ShotID*100 + v*17 + 7
		imageURL := fmt.Sprintf(
			"https://image.pollinations.ai/prompt/%s?width=%d&height=%d&nologo=true&model=%s&seed=%d",
			url.PathEscape(shot.ImagePrompt),
			f.cfg.Images.Width, f.cfg.Images.Height,
			f.cfg.Images.Model, seed,
		)

		outFile := filepath.Join(outputDir, fmt.Sprintf("shot_%03d_v%d.jpg", shot.ShotID, v))

		// Retry up to 3 times (Pollinations occasionally times out)
		var err error
		for attempt := 1; attempt <= 3; attempt++ {
			err = f.downloadImage(ctx, imageURL, outFile)
			if err == nil {
				break
			}
			log.Printf("[images] Attempt %d failed for shot %d variation %d: %v", attempt, shot.ShotID, v, err)
			time.Sleep(time.Duration(attempt) * 3 * time.Second)
		}
		if err != nil {
			log.Printf("[images] ⚠️  Shot %d variation %d skipped after retries: %v", shot.ShotID, v, err)
			continue
		}

		if fi, err := os.Stat(outFile); err == nil && fi.Size() > bestSize {
			bestSize = fi.Size()
			best = outFile
		}
	}

	if best == "" {
		return "", fmt.Errorf("no variation succeeded after retries")
	}
	return best, nil
}

func (f *Fetcher) downloadImage(ctx context.Context, imageURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; AudiobookPipeline/1.0)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from Pollinations", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Validate it's actually an image (not an error HTML page)
	if len(data) < 100 {
		return fmt.Errorf("response too small (%d bytes) — likely an error", len(data))
	}

	return os.WriteFile(outFile, data, 0644)
}

// upscale crops the picked variation to the render aspect ratio and scales
// it to the final resolution with ffmpeg.
func (f *Fetcher) upscale(ctx context.Context, imgFile string, shot *types.Shot, outputDir string) (string, error) {
	outFile := filepath.Join(outputDir, fmt.Sprintf("shot_%03d.jpg", shot.ShotID))

	w := f.cfg.Images.UpscaleWidth
	h := f.cfg.Images.UpscaleHeight

	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		w, h, w, h,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", imgFile,
		"-vf", filter,
		"-q:v", "2",
		outFile,
	)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg crop/upscale: %w", err)
	}
	return outFile, nil
}
