package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Split      SplitConfig      `yaml:"split"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Sections   SectionsConfig   `yaml:"sections"`
	Shots      ShotsConfig      `yaml:"shots"`
	Prompts    PromptsConfig    `yaml:"prompts"`
	Images     ImagesConfig     `yaml:"images"`
	Render     RenderConfig     `yaml:"render"`
	Upload     UploadConfig     `yaml:"upload"`
	Paths      PathsConfig      `yaml:"paths"`
}

type SplitConfig struct {
	ChunkTargetSec  int     `yaml:"chunk_target_sec"`
	MinSilenceSec   float64 `yaml:"min_silence_sec"`
	SilenceThreshDB float64 `yaml:"silence_thresh_db"`
	OutputFormat    string  `yaml:"output_format"`
}

type TranscribeConfig struct {
	WhisperModel string `yaml:"whisper_model"`
	Language     string `yaml:"language"`
}

type SectionsConfig struct {
	TargetCount int     `yaml:"target_count"`
	GroqModel   string  `yaml:"groq_model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type ShotsConfig struct {
	SegmentsPerShot int     `yaml:"segments_per_shot"`
	GroqModel       string  `yaml:"groq_model"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
}

type PromptsConfig struct {
	GroqModel       string `yaml:"groq_model"`
	Style           string `yaml:"style"`
	GenerateEffects bool   `yaml:"generate_effects"`
}

type ImagesConfig struct {
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	Model          string `yaml:"model"`
	VariationCount int    `yaml:"variation_count"`
	UpscaleWidth   int    `yaml:"upscale_width"`
	UpscaleHeight  int    `yaml:"upscale_height"`
}

type RenderConfig struct {
	VideoResolution    string  `yaml:"video_resolution"`
	FPS                int     `yaml:"fps"`
	KenBurnsZoomFactor float64 `yaml:"ken_burns_zoom_factor"`
}

type UploadConfig struct {
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"category_id"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	DefaultLanguage   string `yaml:"default_language"`
}

type PathsConfig struct {
	Books  string `yaml:"books"`
	Output string `yaml:"output"`
	Logs   string `yaml:"logs"`
}

// Load reads config.yaml and returns a Config struct
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills zero values the pipeline cannot run without.
func (c *Config) applyDefaults() {
	if c.Split.ChunkTargetSec == 0 {
		c.Split.ChunkTargetSec = 600
	}
	if c.Split.OutputFormat == "" {
		c.Split.OutputFormat = "mp3"
	}
	if c.Transcribe.WhisperModel == "" {
		c.Transcribe.WhisperModel = "base"
	}
	if c.Transcribe.Language == "" {
		c.Transcribe.Language = "en"
	}
	if c.Sections.TargetCount == 0 {
		c.Sections.TargetCount = 10
	}
	if c.Sections.MaxTokens == 0 {
		c.Sections.MaxTokens = 4096
	}
	if c.Shots.SegmentsPerShot == 0 {
		c.Shots.SegmentsPerShot = 4
	}
	if c.Shots.MaxTokens == 0 {
		c.Shots.MaxTokens = 4096
	}
	if c.Images.Width == 0 {
		c.Images.Width = 1344
	}
	if c.Images.Height == 0 {
		c.Images.Height = 768
	}
	if c.Images.VariationCount == 0 {
		c.Images.VariationCount = 3
	}
	if c.Images.UpscaleWidth == 0 {
		c.Images.UpscaleWidth = 1920
	}
	if c.Images.UpscaleHeight == 0 {
		c.Images.UpscaleHeight = 1080
	}
	if c.Render.VideoResolution == "" {
		c.Render.VideoResolution = "1920x1080"
	}
	if c.Render.FPS == 0 {
		c.Render.FPS = 30
	}
	if c.Render.KenBurnsZoomFactor == 0 {
		c.Render.KenBurnsZoomFactor = 1.08
	}
	if c.Paths.Books == "" {
		c.Paths.Books = "books"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Logs == "" {
		c.Paths.Logs = "logs"
	}
}
