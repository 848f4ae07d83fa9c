package shots

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"audiobook-pipeline/config"
	"audiobook-pipeline/partition"
	"audiobook-pipeline/types"
)

// Generator breaks one section into camera shots using a Groq proposal
// scoped to the section's segment range, then validates and materializes the
// shots itself.
type Generator struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new shot Generator
func New(cfg *config.Config) *Generator {
	return &Generator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Run proposes, validates and materializes the shot partition for one
// section. A gap, coverage hole or empty slice aborts the whole section's
// shot set — no partial result comes back.
func (g *Generator) Run(ctx context.Context, section *types.Section) (*types.Shots, error) {
	log.Printf("[shots] Section %q: proposing shots (%d segments)...", section.Title, section.SegmentCount)

	proposals, err := g.propose(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("shot proposal for %q: %w", section.Title, err)
	}

	set, err := PartitionSectionIntoShots(section, proposals)
	if err != nil {
		return nil, err
	}

	log.Printf("[shots] ✅ Section %q: %d shots, %.0fs", section.Title, set.ShotCount, set.Duration)
	return set, nil
}

// PartitionSectionIntoShots validates a shot proposal against the section's
// segment range and materializes each shot with section-local ids 0..N-1.
// Pure: no I/O, deterministic for a given proposal and section.
func PartitionSectionIntoShots(section *types.Section, proposals []types.BoundaryProposal) (*types.Shots, error) {
	if len(section.Segments) == 0 {
		return nil, fmt.Errorf("section %q has no segments", section.Title)
	}

	spans := make([]partition.Span, len(proposals))
	for i, p := range proposals {
		spans[i] = partition.Span{Start: p.StartSegment, End: p.EndSegment, Label: p.Title}
	}
	if err := partition.ValidateContiguousCoverage(spans, section.StartSegment, section.EndSegment); err != nil {
		return nil, err
	}

	return materializeShots(section, proposals)
}

// materializeShots slices the section's segments for each validated
// proposal. The empty-slice check defends against a proposal referencing
// ids outside the section's actual bounds, which validation alone cannot
// rule out when a range is inverted.
func materializeShots(section *types.Section, proposals []types.BoundaryProposal) (*types.Shots, error) {
	set := &types.Shots{}
	for i, p := range proposals {
		lo := p.StartSegment - section.StartSegment
		hi := p.EndSegment - section.StartSegment + 1
		if lo < 0 || hi > len(section.Segments) || lo >= hi {
			return nil, &partition.EmptySliceError{Label: p.Title, StartSegment: p.StartSegment, EndSegment: p.EndSegment}
		}
		slice := section.Segments[lo:hi]

		shot := types.Shot{
			ShotID:       i,
			Title:        p.Title,
			Description:  p.Description,
			Text:         joinSegmentText(slice),
			Start:        slice[0].Start,
			End:          slice[len(slice)-1].End,
			Duration:     slice[len(slice)-1].End - slice[0].Start,
			StartSegment: p.StartSegment,
			EndSegment:   p.EndSegment,
			SegmentCount: len(slice),
		}
		set.Shots = append(set.Shots, shot)
		set.Duration += shot.Duration
		set.SegmentCount += shot.SegmentCount
	}
	set.ShotCount = len(set.Shots)

	return set, nil
}

// joinSegmentText concatenates segment text with single spaces.
func joinSegmentText(segments []types.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
