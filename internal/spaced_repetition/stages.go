package spaced_repetition

import (
	"fmt"
	"time"

	"github.com/example/algotrack/pkg/models"
)

// StageMachine implements the fixed-stage custom scheduler. Items move through
// the ordered stages one hop at a time, gated by elapsed whole days and, for
// most stages, an explicit retention confirmation.
type StageMachine struct {
	// Minimum whole days an item must spend in each stage before promotion
	StageDays map[models.Stage]int
	// Stages promoted on elapsed time alone, ignoring the checked flag
	TimeOnly map[models.Stage]bool
}

// NewStageMachine creates a stage machine with the default schedule.
func NewStageMachine() *StageMachine {
	return &StageMachine{
		StageDays: map[models.Stage]int{
			models.StageToday:    1,
			models.StageTomorrow: 3,
			models.StageDay3:     7,
			models.StageWeek1:    14,
			models.StageWeek2:    30,
			models.StageMonth1:   90,
		},
		TimeOnly: map[models.Stage]bool{
			// Fresh items always leave today after a day.
			models.StageToday: true,
			// day3 promotes on time alone so an unchecked item cannot stall forever.
			models.StageDay3: true,
		},
	}
}

// NewItem creates a review item seeded into the today stage.
func (m *StageMachine) NewItem(problemID int64, now time.Time) models.ReviewItem {
	return models.ReviewItem{
		ProblemID:      problemID,
		Stage:          models.StageToday,
		AddedDate:      now,
		StageAddedDate: now,
	}
}

// Advance decides whether the item is promoted to its next stage at the given
// time. Pure: the caller owns bucket membership and persistence. Returns the
// (possibly updated) item, whether it moved and a log entry describing the move.
func (m *StageMachine) Advance(item models.ReviewItem, now time.Time) (models.ReviewItem, bool, string) {
	if item.Stage.Terminal() {
		return item, false, ""
	}

	days, ok := m.StageDays[item.Stage]
	if !ok {
		return item, false, ""
	}

	// today measures from the original solve time, later stages from stage entry.
	ref := item.StageEntered()
	if item.Stage == models.StageToday {
		ref = item.AddedDate
	}
	if wholeDays(ref, now) < days {
		return item, false, ""
	}
	if !m.TimeOnly[item.Stage] && !item.IsChecked {
		return item, false, ""
	}

	from := item.Stage
	next := models.StageOrder[from.Index()+1]
	moved := now

	item.Stage = next
	item.StageAddedDate = now
	item.MovedDate = &moved
	// Each stage demands a fresh confirmation, even after a time-only promotion.
	item.IsChecked = false
	if next.Terminal() {
		item.CompletedDate = &moved
	}

	return item, true, fmt.Sprintf("problem %d: %s -> %s", item.ProblemID, from, next)
}

// wholeDays returns the number of complete 24h periods between from and to.
func wholeDays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
