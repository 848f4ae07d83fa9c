package prompts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"audiobook-pipeline/config"
	"audiobook-pipeline/types"
)

const promptSystemPrompt = `You are a cinematographer writing image-generation prompts for an illustrated audiobook.

For each camera shot you receive, write one detailed diffusion-model prompt describing the single still image for that shot: subject, setting, composition, lighting, era-appropriate detail. Painterly, consistent book-illustration style. No text, no watermarks, no captions in the image.

You MUST respond with ONLY valid JSON — no markdown, no explanation, no preamble.

The JSON must have exactly these fields:
- "image_prompt": string, the full diffusion prompt
- "ffmpeg_effects": string, an ffmpeg zoompan/crop expression suggestion for camera motion over the still (e.g. slow zoom in, pan left-to-right), or "" if a static hold fits best
- "effects_explanation": string, one sentence on why that motion suits the shot`

// Generator writes image prompts and camera-motion effects onto shots via Groq
type Generator struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new prompt Generator
func New(cfg *config.Config) *Generator {
	return &Generator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type promptJSON struct {
	ImagePrompt        string `json:"image_prompt"`
	FFmpegEffects      string `json:"ffmpeg_effects"`
	EffectsExplanation string `json:"effects_explanation"`
}

// Run fills ImagePrompt (and, when enabled, the effects fields) for every
// shot in the combined set, one Groq call per shot in shot order.
func (g *Generator) Run(ctx context.Context, set *types.Shots, bookTitle string) error {
	log.Printf("[prompts] Generating image prompts for %d shots...", set.ShotCount)

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GROQ_API_KEY not set")
	}

	for i := range set.Shots {
		shot := &set.Shots[i]
		raw, err := g.generateOne(ctx, apiKey, shot, bookTitle)
		if err != nil {
			return fmt.Errorf("shot %d prompt: %w", shot.ShotID, err)
		}

		shot.ImagePrompt = strings.TrimSpace(raw.ImagePrompt)
		if g.cfg.Prompts.GenerateEffects {
			shot.FFmpegEffects = strings.TrimSpace(raw.FFmpegEffects)
			shot.EffectsExplanation = strings.TrimSpace(raw.EffectsExplanation)
		}

		log.Printf("[prompts] Shot %d/%d: %q", i+1, set.ShotCount, truncate(shot.ImagePrompt, 70))
	}

	log.Printf("[prompts] ✅ All %d prompts ready", set.ShotCount)
	return nil
}

func (g *Generator) generateOne(ctx context.Context, apiKey string, shot *types.Shot, bookTitle string) (*promptJSON, error) {
	reqBody := map[string]interface{}{
		"model": g.cfg.Prompts.GroqModel,
		"messages": []map[string]string{
			{"role": "system", "content": promptSystemPrompt},
			{"role": "user", "content": buildShotPrompt(shot, bookTitle, g.cfg.Prompts.Style)},
		},
		"temperature": 0.7,
		"max_tokens":  1024,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		"https://api.groq.com/openai/v1/chat/completions",
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var groqResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBytes, &groqResp); err != nil {
		return nil, fmt.Errorf("parse groq response: %w", err)
	}
	if groqResp.Error != nil {
		return nil, fmt.Errorf("groq error: %s", groqResp.Error.Message)
	}
	if len(groqResp.Choices) == 0 {
		return nil, fmt.Errorf("groq returned no choices")
	}

	content := cleanJSON(groqResp.Choices[0].Message.Content)

	var raw promptJSON
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse prompt JSON: %w\ncontent: %s", err, content[:min(300, len(content))])
	}
	if strings.TrimSpace(raw.ImagePrompt) == "" {
		return nil, fmt.Errorf("groq returned an empty image prompt")
	}

	return &raw, nil
}

func buildShotPrompt(shot *types.Shot, bookTitle, style string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("BOOK: %s\n", bookTitle))
	sb.WriteString(fmt.Sprintf("SHOT TITLE: %s\n", shot.Title))
	sb.WriteString(fmt.Sprintf("SHOT DESCRIPTION: %s\n", shot.Description))
	sb.WriteString(fmt.Sprintf("SHOT DURATION: %.1f seconds\n\n", shot.Duration))
	sb.WriteString("NARRATION COVERED BY THIS SHOT:\n")
	sb.WriteString(shot.Text)
	sb.WriteString("\n\n")
	if style != "" {
		sb.WriteString(fmt.Sprintf("VISUAL STYLE: %s\n\n", style))
	}
	sb.WriteString("Respond ONLY with valid JSON.")
	return sb.String()
}

func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
