package mover

import (
	"testing"
	"time"

	"github.com/example/algotrack/internal/spaced_repetition"
	"github.com/example/algotrack/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newMover() *Mover {
	return New(spaced_repetition.NewStageMachine())
}

func seeded(stage models.Stage, problemID int64, entered time.Time, checked bool) *models.SheetProgress {
	progress := models.NewSheetProgress(1, "dsa")
	bucket := progress.Custom.Bucket(stage)
	*bucket = append(*bucket, models.ReviewItem{
		ProblemID:      problemID,
		Stage:          stage,
		AddedDate:      entered,
		StageAddedDate: entered,
		IsChecked:      checked,
	})
	return progress
}

func TestMoveSingleHopPerRun(t *testing.T) {
	m := newMover()

	// 10 days in today with the box pre-checked: timing alone would satisfy
	// tomorrow's rule too, but one pass moves the item exactly one stage.
	progress := seeded(models.StageToday, 42, t0, true)
	now := t0.AddDate(0, 0, 10)

	result := m.Move(&progress.Custom, now)
	assert.Equal(t, 1, result.Moved)
	require.Len(t, progress.Custom.Tomorrow, 1)
	assert.Empty(t, progress.Custom.Today)
	assert.Empty(t, progress.Custom.Day3)
	assert.Equal(t, now, progress.Custom.Tomorrow[0].StageAddedDate)
}

func TestMoveIsIdempotentAtSameNow(t *testing.T) {
	m := newMover()
	progress := seeded(models.StageToday, 42, t0, false)
	now := t0.AddDate(0, 0, 2)

	first := m.Move(&progress.Custom, now)
	require.Equal(t, 1, first.Moved)

	second := m.Move(&progress.Custom, now)
	assert.Equal(t, 0, second.Moved)
	assert.Empty(t, second.Log)
	require.Len(t, progress.Custom.Tomorrow, 1)
}

func TestMoveProcessesStagesInOrder(t *testing.T) {
	m := newMover()
	progress := models.NewSheetProgress(1, "dsa")
	old := t0.AddDate(0, 0, -100)
	for i, stage := range []models.Stage{
		models.StageToday, models.StageTomorrow, models.StageDay3,
		models.StageWeek1, models.StageWeek2, models.StageMonth1,
	} {
		bucket := progress.Custom.Bucket(stage)
		*bucket = append(*bucket, models.ReviewItem{
			ProblemID:      int64(i + 1),
			Stage:          stage,
			AddedDate:      old,
			StageAddedDate: old,
			IsChecked:      true,
		})
	}

	result := m.Move(&progress.Custom, t0)
	assert.Equal(t, 6, result.Moved)
	assert.Len(t, result.Log, 6)

	// Every item advanced exactly one hop.
	assert.Empty(t, progress.Custom.Today)
	assert.Len(t, progress.Custom.Tomorrow, 1)
	assert.Len(t, progress.Custom.Day3, 1)
	assert.Len(t, progress.Custom.Week1, 1)
	assert.Len(t, progress.Custom.Week2, 1)
	assert.Len(t, progress.Custom.Month1, 1)
	assert.Len(t, progress.Custom.Completed, 1)

	assert.Equal(t, map[models.Stage]int{
		models.StageToday:     0,
		models.StageTomorrow:  1,
		models.StageDay3:      1,
		models.StageWeek1:     1,
		models.StageWeek2:     1,
		models.StageMonth1:    1,
		models.StageCompleted: 1,
	}, result.Counts)
}

func TestMoveLeavesUnreadyItemsAlone(t *testing.T) {
	m := newMover()
	progress := seeded(models.StageWeek1, 42, t0, false)

	// 20 days elapsed but unchecked: the dual gate holds it in week1.
	result := m.Move(&progress.Custom, t0.AddDate(0, 0, 20))
	assert.Equal(t, 0, result.Moved)
	require.Len(t, progress.Custom.Week1, 1)
	assert.Equal(t, t0, progress.Custom.Week1[0].StageAddedDate)
}

func TestMoveNeverTouchesCompleted(t *testing.T) {
	m := newMover()
	progress := seeded(models.StageCompleted, 42, t0, true)

	result := m.Move(&progress.Custom, t0.AddDate(5, 0, 0))
	assert.Equal(t, 0, result.Moved)
	require.Len(t, progress.Custom.Completed, 1)
	assert.Equal(t, t0, progress.Custom.Completed[0].StageAddedDate)
}

// TestMoveSolvedProblemLifecycle walks problem 42 through the schedule the
// way a learner would: solve, wait, confirm, wait, and once forget to confirm.
func TestMoveSolvedProblemLifecycle(t *testing.T) {
	m := newMover()
	machine := spaced_repetition.NewStageMachine()

	progress := models.NewSheetProgress(1, "dsa")
	progress.Custom.Today = append(progress.Custom.Today, machine.NewItem(42, t0))

	// 25 hours after solving: today -> tomorrow.
	at1 := t0.Add(25 * time.Hour)
	result := m.Move(&progress.Custom, at1)
	require.Equal(t, 1, result.Moved)
	require.Len(t, progress.Custom.Tomorrow, 1)
	assert.Equal(t, at1, progress.Custom.Tomorrow[0].StageAddedDate)

	// The learner confirms retention.
	progress.Custom.Tomorrow[0].IsChecked = true

	// Three days later: tomorrow -> day3.
	at2 := at1.AddDate(0, 0, 3)
	result = m.Move(&progress.Custom, at2)
	require.Equal(t, 1, result.Moved)
	require.Len(t, progress.Custom.Day3, 1)
	assert.False(t, progress.Custom.Day3[0].IsChecked)

	// Eight days in day3 with the box never checked: promoted anyway.
	at3 := at2.AddDate(0, 0, 8)
	result = m.Move(&progress.Custom, at3)
	require.Equal(t, 1, result.Moved)
	require.Len(t, progress.Custom.Week1, 1)
	assert.Equal(t, []string{"problem 42: day3 -> week1"}, result.Log)
}
