package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StageBuckets holds the per-stage item arrays of the custom scheduler.
// An item lives in exactly one bucket at a time.
type StageBuckets struct {
	Today     []ReviewItem `json:"today"`
	Tomorrow  []ReviewItem `json:"tomorrow"`
	Day3      []ReviewItem `json:"day3"`
	Week1     []ReviewItem `json:"week1"`
	Week2     []ReviewItem `json:"week2"`
	Month1    []ReviewItem `json:"month1"`
	Completed []ReviewItem `json:"completed"`
}

// Bucket returns a pointer to the array backing the given stage.
func (b *StageBuckets) Bucket(s Stage) *[]ReviewItem {
	switch s {
	case StageToday:
		return &b.Today
	case StageTomorrow:
		return &b.Tomorrow
	case StageDay3:
		return &b.Day3
	case StageWeek1:
		return &b.Week1
	case StageWeek2:
		return &b.Week2
	case StageMonth1:
		return &b.Month1
	case StageCompleted:
		return &b.Completed
	}
	return nil
}

// Find locates a problem in whichever bucket currently holds it.
// Returns the stage, the index inside its bucket and whether it was found.
func (b *StageBuckets) Find(problemID int64) (Stage, int, bool) {
	for _, stage := range StageOrder {
		items := *b.Bucket(stage)
		for i := range items {
			if items[i].ProblemID == problemID {
				return stage, i, true
			}
		}
	}
	return "", 0, false
}

// IndexByProblem builds a lookup from problem ID to current stage.
// Rebuilt after load so callers avoid repeated bucket scans.
func (b *StageBuckets) IndexByProblem() map[int64]Stage {
	index := make(map[int64]Stage)
	for _, stage := range StageOrder {
		for _, item := range *b.Bucket(stage) {
			index[item.ProblemID] = stage
		}
	}
	return index
}

// Counts returns the number of items currently held in each stage.
func (b *StageBuckets) Counts() map[Stage]int {
	counts := make(map[Stage]int, len(StageOrder))
	for _, stage := range StageOrder {
		counts[stage] = len(*b.Bucket(stage))
	}
	return counts
}

// Total returns the number of items across all stages.
func (b *StageBuckets) Total() int {
	total := 0
	for _, stage := range StageOrder {
		total += len(*b.Bucket(stage))
	}
	return total
}

// stagePair is the legacy ordered key/value representation of the buckets.
type stagePair struct {
	Key   string       `json:"key"`
	Value []ReviewItem `json:"value"`
}

// UnmarshalJSON accepts both on-disk shapes of the bucket structure: the
// canonical plain object and the legacy ordered key/value pair array.
// Either way the result is normalized into the struct fields.
func (b *StageBuckets) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pairs []stagePair
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return fmt.Errorf("failed to parse legacy stage buckets: %v", err)
		}
		*b = StageBuckets{}
		for _, pair := range pairs {
			stage, err := ParseStage(pair.Key)
			if err != nil {
				return fmt.Errorf("failed to parse legacy stage buckets: %v", err)
			}
			*b.Bucket(stage) = pair.Value
		}
		b.ensure()
		return nil
	}

	type plain StageBuckets
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse stage buckets: %v", err)
	}
	*b = StageBuckets(p)
	b.ensure()
	return nil
}

// ensure materializes every stage array so the canonical shape always
// carries all seven keys, even after loading a partial legacy document.
func (b *StageBuckets) ensure() {
	for _, stage := range StageOrder {
		bucket := b.Bucket(stage)
		if *bucket == nil {
			*bucket = []ReviewItem{}
		}
	}
}

// SheetProgress is the per-user, per-sheet unit of scheduling state.
// It is always loaded, mutated and saved as a whole.
type SheetProgress struct {
	UserID    int64        `json:"user_id" db:"user_id"`
	SheetType string       `json:"sheet_type" db:"sheet_type"`
	Custom    StageBuckets `json:"custom_spaced_repetition"` // Stage-machine state
	Adaptive  []SRRecord   `json:"spaced_repetition"`        // SM-2 records
	Version   int64        `json:"-" db:"version"`           // Optimistic concurrency counter
}

// NewSheetProgress returns an empty skeleton with all stage arrays present.
func NewSheetProgress(userID int64, sheetType string) *SheetProgress {
	return &SheetProgress{
		UserID:    userID,
		SheetType: sheetType,
		Custom: StageBuckets{
			Today:     []ReviewItem{},
			Tomorrow:  []ReviewItem{},
			Day3:      []ReviewItem{},
			Week1:     []ReviewItem{},
			Week2:     []ReviewItem{},
			Month1:    []ReviewItem{},
			Completed: []ReviewItem{},
		},
		Adaptive: []SRRecord{},
	}
}

// FindRecord returns the SM-2 record for a problem, or nil if absent.
func (p *SheetProgress) FindRecord(problemID int64) *SRRecord {
	for i := range p.Adaptive {
		if p.Adaptive[i].ProblemID == problemID {
			return &p.Adaptive[i]
		}
	}
	return nil
}
