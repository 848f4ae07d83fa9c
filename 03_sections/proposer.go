package sections

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

const systemPrompt = `You are a literary editor who divides audiobook chapters into narrative sections.

Given a numbered list of transcript segments, divide the chapter into the requested number of contiguous sections. Each section should cover one narrative unit: a scene, a conversation, a shift in time or place.

You MUST respond with ONLY valid JSON — no preamble, no markdown, no explanation.

The JSON must be: {"sections": [...]} where each section has exactly:
- "title": short evocative section title
- "description": 1-2 sentence summary of what happens
- "start_segment": id of the first segment in the section
- "end_segment": id of the last segment in the section

Boundary rules:
- The first section MUST start at the first segment id.
- The last section MUST end at the last segment id.
- Every section MUST start exactly one segment after the previous section ends.
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
	Sections []types.BoundaryProposal `json:"sections"`
}

// propose asks Groq for a section partition of the chapter. The result is an
// unvalidated proposal — PartitionIntoSections decides whether it stands.
func (p *Partitioner) propose(ctx context.Context, transcript *types.Transcript, targetCount int) ([]types.BoundaryProposal, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}

	reqBody := groqRequest{
		Model: p.cfg.Sections.GroqModel,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(transcript, targetCount)},
		},
		Temperature: p.cfg.Sections.Temperature,
		MaxTokens:   p.cfg.Sections.MaxTokens,
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

	resp, err := p.httpClient.Do(req)
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
		return nil, fmt.Errorf("parse sections JSON: %w\nraw content: %s", err, content[:min(200, len(content))])
	}
	if len(raw.Sections) == 0 {
		return nil, fmt.Errorf("groq proposed no sections")
	}

	return raw.Sections, nil
}

func buildUserPrompt(transcript *types.Transcript, targetCount int) string {
	segments := transcript.Segments
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Divide this chapter into approximately %d sections.\n\n", targetCount))
	sb.WriteString(fmt.Sprintf("The chapter has %d segments, ids %d through %d, total %.0f seconds.\n\n",
		len(segments), segments[0].ID, segments[len(segments)-1].ID, transcript.Duration))

	sb.WriteString("SEGMENTS:\n")
	for _, s := range segments {
		sb.WriteString(fmt.Sprintf("[%d] (%.1f-%.1f) %s\n", s.ID, s.Start, s.End, s.Text))
	}

	sb.WriteString("\nRespond ONLY with valid JSON. No markdown. No explanation.")
	return sb.String()
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
