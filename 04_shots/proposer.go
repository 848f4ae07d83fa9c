package shots

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"audiobook-pipeline/types"
)

const systemPrompt = `You are a film director planning camera shots for an illustrated audiobook.

Given one narrative section of a chapter as a numbered list of transcript segments, break it into camera shots. Each shot is one visual "take": a single image the viewer holds while those segments are narrated. Aim for roughly one shot per 4 segments.

You MUST respond with ONLY valid JSON — no preamble, no markdown, no explanation.

The JSON must be: {"shots": [...]} where each shot has exactly:
- "title": short cinematographic shot title
- "description": what the camera sees, concrete and visual
- "start_segment": id of the first segment covered by the shot
- "end_segment": id of the last segment covered by the shot

Boundary rules:
- The first shot MUST start at the section's first segment id.
- The last shot MUST end at the section's last segment id.
- Every shot MUST start exactly one segment after the previous shot ends.
- Cover every segment exactly once. No gaps, no overlaps.`

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// proposalJSON is the raw JSON structure returned by Groq
type proposalJSON struct {
	Shots []types.BoundaryProposal `json:"shots"`
}

// propose asks Groq for a shot partition of one section. Unvalidated —
// PartitionSectionIntoShots decides whether it stands.
func (g *Generator) propose(ctx context.Context, section *types.Section) ([]types.BoundaryProposal, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}

	reqBody := groqRequest{
		Model: g.cfg.Shots.GroqModel,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(section, g.cfg.Shots.SegmentsPerShot)},
		},
		Temperature: g.cfg.Shots.Temperature,
		MaxTokens:   g.cfg.Shots.MaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.groq.com/openai/v1/chat/completions", bytes.NewReader(bodyBytes))
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

	var groqResp groqResponse
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

	var raw proposalJSON
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse shots JSON: %w\nraw content: %s", err, content[:min(200, len(content))])
	}
	if len(raw.Shots) == 0 {
		return nil, fmt.Errorf("groq proposed no shots")
	}

	return raw.Shots, nil
}

func buildUserPrompt(section *types.Section, segmentsPerShot int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SECTION TITLE: %s\n", section.Title))
	sb.WriteString(fmt.Sprintf("SECTION DESCRIPTION: %s\n\n", section.Description))
	sb.WriteString(fmt.Sprintf("The section covers segment ids %d through %d (%d segments, %.0f seconds).\n",
		section.StartSegment, section.EndSegment, section.SegmentCount, section.Duration))
	sb.WriteString(fmt.Sprintf("Aim for about %d shots.\n\n", targetShotCount(section.SegmentCount, segmentsPerShot)))

	sb.WriteString("SEGMENTS:\n")
	for _, s := range section.Segments {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", s.ID, s.Text))
	}

	sb.WriteString(fmt.Sprintf("\nThe first shot must start at segment %d and the last shot must end at segment %d.\n",
		section.StartSegment, section.EndSegment))
	sb.WriteString("Respond ONLY with valid JSON. No markdown. No explanation.")
	return sb.String()
}

// targetShotCount is advisory only — the ratio is suggested to the model,
// never enforced by validation.
func targetShotCount(segmentCount, segmentsPerShot int) int {
	if segmentsPerShot <= 0 {
		segmentsPerShot = 4
	}
	n := (segmentCount + segmentsPerShot - 1) / segmentsPerShot
	if n < 1 {
		n = 1
	}
	return n
}

// cleanJSON strips markdown fences if Groq wraps response in ```json ... ```
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
