package types

// Segment is the smallest unit of transcribed audio. Segments are produced
// once by transcription and never modified; every downstream stage derives
// its timing by indexing back into them by id.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is one chapter's full transcription output.
type Transcript struct {
	Duration     float64   `json:"duration"`
	SegmentCount int       `json:"segment_count"`
	Text         string    `json:"text"`
	Segments     []Segment `json:"segments"`
}

// BoundaryProposal is one section or shot boundary as returned by the LLM.
// The model guarantees nothing — boundaries must be validated before use.
type BoundaryProposal struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	StartSegment int    `json:"start_segment"`
	EndSegment   int    `json:"end_segment"`
}

// Section is a contiguous, validated run of segments forming one narrative
// unit of a chapter.
type Section struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartSegment int       `json:"start_segment"`
	EndSegment   int       `json:"end_segment"`
	Start        float64   `json:"start"`
	End          float64   `json:"end"`
	Duration     float64   `json:"duration"`
	SegmentCount int       `json:"segment_count"`
	Segments     []Segment `json:"segments"`
}

// SectionList is the persisted per-chapter section collection.
type SectionList struct {
	Duration     float64   `json:"duration"`
	SectionCount int       `json:"section_count"`
	Sections     []Section `json:"sections"`
}

// Shot is one camera take within a section. ShotID is local (0-based within
// the section) until Combine renumbers it chapter-wide. FFmpegEffects and
// EffectsExplanation stay empty until the prompts enrichment pass runs.
type Shot struct {
	ShotID             int     `json:"shot_id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Text               string  `json:"text"`
	Start              float64 `json:"start"`
	End                float64 `json:"end"`
	Duration           float64 `json:"duration"`
	StartSegment       int     `json:"start_segment"`
	EndSegment         int     `json:"end_segment"`
	SegmentCount       int     `json:"segment_count"`
	ImagePrompt        string  `json:"image_prompt,omitempty"`
	ImageFile          string  `json:"image_file,omitempty"`
	FFmpegEffects      string  `json:"ffmpeg_effects,omitempty"`
	EffectsExplanation string  `json:"effects_explanation,omitempty"`
}

// Shots is a shot collection, per section or chapter-combined. Duration and
// SegmentCount are the exact sums over the member shots, not re-derived.
type Shots struct {
	Duration     float64 `json:"duration"`
	SegmentCount int     `json:"segment_count"`
	ShotCount    int     `json:"shot_count"`
	Shots        []Shot  `json:"shots"`
}

// PipelineState tracks the full state of one pipeline run
type PipelineState struct {
	Director    string `json:"director"`
	Book        string `json:"book"`
	Chapter     int    `json:"chapter"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	AudioFile   string `json:"audio_file"`
	VideoFile   string `json:"video_file"`
	YouTubeURL  string `json:"youtube_url,omitempty"`
	YouTubeID   string `json:"youtube_id,omitempty"`
	Error       string `json:"error,omitempty"`
}
