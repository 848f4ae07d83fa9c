package sections

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"audiobook-pipeline/config"
	"audiobook-pipeline/partition"
	"audiobook-pipeline/types"
)

// Partitioner divides a chapter transcript into narrative sections using a
// Groq proposal that it validates and materializes itself.
type Partitioner struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new section Partitioner
func New(cfg *config.Config) *Partitioner {
	return &Partitioner{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Run proposes, validates and materializes the section partition for one
// chapter transcript. Nothing is persisted here — a failed validation must
// never leave a partial section list behind.
func (p *Partitioner) Run(ctx context.Context, transcript *types.Transcript) (*types.SectionList, error) {
	log.Printf("[sections] Proposing ~%d sections via Groq...", p.cfg.Sections.TargetCount)

	if len(transcript.Segments) == 0 {
		return nil, fmt.Errorf("transcript has no segments")
	}

	proposals, err := p.propose(ctx, transcript, p.cfg.Sections.TargetCount)
	if err != nil {
		return nil, fmt.Errorf("section proposal: %w", err)
	}

	list, err := PartitionIntoSections(transcript.Segments, proposals)
	if err != nil {
		return nil, err
	}

	log.Printf("[sections] ✅ %d sections validated, %.0fs total", list.SectionCount, list.Duration)
	return list, nil
}

// PartitionIntoSections validates a section proposal against the segment
// list and materializes each section. Pure: no I/O, deterministic for a
// given proposal and segment store.
func PartitionIntoSections(segments []types.Segment, proposals []types.BoundaryProposal) (*types.SectionList, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments to partition")
	}

	firstID := segments[0].ID
	lastID := segments[len(segments)-1].ID

	spans := make([]partition.Span, len(proposals))
	for i, p := range proposals {
		spans[i] = partition.Span{Start: p.StartSegment, End: p.EndSegment, Label: p.Title}
	}
	if err := partition.ValidateContiguousCoverage(spans, firstID, lastID); err != nil {
		return nil, err
	}

	list := &types.SectionList{}
	for _, p := range proposals {
		lo := p.StartSegment - firstID
		hi := p.EndSegment - firstID + 1
		if lo < 0 || hi > len(segments) || lo >= hi {
			return nil, &partition.EmptySliceError{Label: p.Title, StartSegment: p.StartSegment, EndSegment: p.EndSegment}
		}
		slice := segments[lo:hi]
		section := types.Section{
			Title:        p.Title,
			Description:  p.Description,
			StartSegment: p.StartSegment,
			EndSegment:   p.EndSegment,
			Start:        slice[0].Start,
			End:          slice[len(slice)-1].End,
			Duration:     slice[len(slice)-1].End - slice[0].Start,
			SegmentCount: len(slice),
			Segments:     slice,
		}
		list.Sections = append(list.Sections, section)
		list.Duration += section.Duration
	}
	list.SectionCount = len(list.Sections)

	return list, nil
}
