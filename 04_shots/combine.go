package shots

import (
	"log"

	"audiobook-pipeline/types"
)

// Combine concatenates per-section shot sets into one chapter-level set.
// Shot ids are renumbered to a chapter-global contiguous sequence in the
// order the sets are given (ascending section order = narrative order), and
// the collection totals are the arithmetic sums of the inputs.
func Combine(sets []*types.Shots) *types.Shots {
	combined := &types.Shots{}

	shotIDOffset := 0
	for _, set := range sets {
		for i, shot := range set.Shots {
			shot.ShotID = shotIDOffset + i
			combined.Shots = append(combined.Shots, shot)
		}
		shotIDOffset += len(set.Shots)
		combined.Duration += set.Duration
		combined.SegmentCount += set.SegmentCount
	}
	combined.ShotCount = len(combined.Shots)

	log.Printf("[shots] Combined %d section sets into %d shots, %.0fs total", len(sets), combined.ShotCount, combined.Duration)
	return combined
}
