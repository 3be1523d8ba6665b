package models

import "time"

// ReviewItem tracks a solved problem moving through the fixed review stages
type ReviewItem struct {
	ProblemID      int64      `json:"problem_id" db:"problem_id"`
	Stage          Stage      `json:"stage" db:"stage"`
	AddedDate      time.Time  `json:"added_date" db:"added_date"`             // Original solve time, never changes
	StageAddedDate time.Time  `json:"stage_added_date" db:"stage_added_date"` // When the item entered its current stage
	IsChecked      bool       `json:"is_checked" db:"is_checked"`             // Retention confirmed by the user for this stage
	MovedDate      *time.Time `json:"moved_date,omitempty" db:"moved_date"`
	CompletedDate  *time.Time `json:"completed_date,omitempty" db:"completed_date"`
}

// StageEntered returns the timestamp the item entered its current stage,
// falling back to AddedDate for items written before stage_added_date existed.
func (item *ReviewItem) StageEntered() time.Time {
	if item.StageAddedDate.IsZero() {
		return item.AddedDate
	}
	return item.StageAddedDate
}
