package models

import "time"

// SRRecord tracks a problem under the free-form SM-2 scheduler
type SRRecord struct {
	ProblemID      int64     `json:"problem_id" db:"problem_id"`
	Interval       int       `json:"interval" db:"interval"`         // Current interval in days
	Repetitions    int       `json:"repetitions" db:"repetitions"`   // Consecutive successful reviews
	EaseFactor     float64   `json:"ease_factor" db:"ease_factor"`   // SM-2 EF parameter, never below 1.3
	Quality        int       `json:"quality" db:"quality"`           // 0-5 rating of the last review
	NextReviewDate time.Time `json:"next_review_date" db:"next_review_date"`
	LastReviewDate time.Time `json:"last_review_date" db:"last_review_date"`
}

// Due reports whether the record is due for review at the given time.
func (r *SRRecord) Due(now time.Time) bool {
	return !r.NextReviewDate.After(now)
}
