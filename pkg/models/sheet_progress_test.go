package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestStageBucketsUnmarshalPlainObject(t *testing.T) {
	raw := `{
		"today": [{"problem_id": 42, "stage": "today", "added_date": "2025-06-15T10:00:00Z"}],
		"week1": [{"problem_id": 7, "stage": "week1", "is_checked": true}]
	}`

	var buckets StageBuckets
	require.NoError(t, json.Unmarshal([]byte(raw), &buckets))
	require.Len(t, buckets.Today, 1)
	assert.Equal(t, int64(42), buckets.Today[0].ProblemID)
	assert.Equal(t, t0, buckets.Today[0].AddedDate)
	require.Len(t, buckets.Week1, 1)
	assert.True(t, buckets.Week1[0].IsChecked)
	assert.Empty(t, buckets.Completed)
}

func TestStageBucketsUnmarshalLegacyPairArray(t *testing.T) {
	raw := `[
		{"key": "today", "value": [{"problem_id": 42, "stage": "today"}]},
		{"key": "completed", "value": [{"problem_id": 7, "stage": "completed"}]}
	]`

	var buckets StageBuckets
	require.NoError(t, json.Unmarshal([]byte(raw), &buckets))
	require.Len(t, buckets.Today, 1)
	assert.Equal(t, int64(42), buckets.Today[0].ProblemID)
	require.Len(t, buckets.Completed, 1)
	assert.Equal(t, int64(7), buckets.Completed[0].ProblemID)
}

func TestStageBucketsUnmarshalRejectsUnknownStage(t *testing.T) {
	raw := `[{"key": "someday", "value": []}]`

	var buckets StageBuckets
	assert.Error(t, json.Unmarshal([]byte(raw), &buckets))
}

func TestStageBucketsRoundTrip(t *testing.T) {
	progress := NewSheetProgress(1, "dsa")
	progress.Custom.Day3 = append(progress.Custom.Day3, ReviewItem{
		ProblemID:      42,
		Stage:          StageDay3,
		AddedDate:      t0,
		StageAddedDate: t0,
		IsChecked:      true,
	})

	data, err := json.Marshal(progress.Custom)
	require.NoError(t, err)

	var decoded StageBuckets
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, progress.Custom, decoded)
}

func TestStageBucketsFind(t *testing.T) {
	buckets := StageBuckets{
		Tomorrow: []ReviewItem{{ProblemID: 1}, {ProblemID: 2}},
		Month1:   []ReviewItem{{ProblemID: 3}},
	}

	stage, i, ok := buckets.Find(2)
	require.True(t, ok)
	assert.Equal(t, StageTomorrow, stage)
	assert.Equal(t, 1, i)

	stage, _, ok = buckets.Find(3)
	require.True(t, ok)
	assert.Equal(t, StageMonth1, stage)

	_, _, ok = buckets.Find(99)
	assert.False(t, ok)
}

func TestStageBucketsIndexByProblem(t *testing.T) {
	buckets := StageBuckets{
		Today:     []ReviewItem{{ProblemID: 1}},
		Completed: []ReviewItem{{ProblemID: 2}},
	}

	index := buckets.IndexByProblem()
	assert.Equal(t, map[int64]Stage{1: StageToday, 2: StageCompleted}, index)
}

func TestStageOrderIsForward(t *testing.T) {
	for i, stage := range StageOrder {
		assert.Equal(t, i, stage.Index())
	}
	assert.True(t, StageCompleted.Terminal())
	assert.False(t, StageMonth1.Terminal())
	assert.Equal(t, -1, Stage("someday").Index())
}

func TestParseStage(t *testing.T) {
	stage, err := ParseStage("week2")
	require.NoError(t, err)
	assert.Equal(t, StageWeek2, stage)

	_, err = ParseStage("someday")
	assert.Error(t, err)
}

func TestNewSheetProgressSkeleton(t *testing.T) {
	progress := NewSheetProgress(1, "dsa")

	// All seven arrays are present, empty but non-nil, so the persisted JSON
	// always carries every stage key.
	for _, stage := range StageOrder {
		bucket := progress.Custom.Bucket(stage)
		require.NotNil(t, bucket)
		assert.NotNil(t, *bucket)
		assert.Empty(t, *bucket)
	}
	assert.NotNil(t, progress.Adaptive)
}

func TestFindRecord(t *testing.T) {
	progress := NewSheetProgress(1, "dsa")
	progress.Adaptive = append(progress.Adaptive, SRRecord{ProblemID: 42, Interval: 6})

	record := progress.FindRecord(42)
	require.NotNil(t, record)
	assert.Equal(t, 6, record.Interval)

	// The pointer aliases the slice so callers can mutate in place.
	record.Interval = 7
	assert.Equal(t, 7, progress.Adaptive[0].Interval)

	assert.Nil(t, progress.FindRecord(99))
}
