package mover

import (
	"time"

	"github.com/example/algotrack/internal/spaced_repetition"
	"github.com/example/algotrack/pkg/models"
)

// Mover applies stage transitions to a user's bucket structure.
type Mover struct {
	machine *spaced_repetition.StageMachine
}

// New creates a mover backed by the given stage machine.
func New(machine *spaced_repetition.StageMachine) *Mover {
	return &Mover{machine: machine}
}

// Result describes one mover pass over a single sheet.
type Result struct {
	Moved  int                  // Number of items promoted in this pass
	Log    []string             // Human-readable transition descriptions
	Counts map[models.Stage]int // Per-stage item counts after the pass
}

// Move evaluates every item in every non-terminal stage, in fixed stage
// order, and re-partitions promoted items into their destination buckets.
//
// Processing in stage order means an item promoted during this pass lands in
// a bucket whose rules it cannot yet satisfy (its stage entry time is now),
// so each item moves at most one hop per pass. Re-running with the same now
// therefore produces no further movement.
func (m *Mover) Move(buckets *models.StageBuckets, now time.Time) *Result {
	result := &Result{}

	for _, stage := range models.StageOrder {
		if stage.Terminal() {
			continue
		}

		bucket := buckets.Bucket(stage)
		remaining := make([]models.ReviewItem, 0, len(*bucket))
		for _, item := range *bucket {
			updated, moved, entry := m.machine.Advance(item, now)
			if !moved {
				remaining = append(remaining, item)
				continue
			}
			dest := buckets.Bucket(updated.Stage)
			*dest = append(*dest, updated)
			result.Moved++
			result.Log = append(result.Log, entry)
		}
		*bucket = remaining
	}

	result.Counts = buckets.Counts()
	return result
}
