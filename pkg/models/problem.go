package models

import "time"

// Problem represents a practice problem belonging to a sheet
type Problem struct {
	ID         int64     `json:"id" db:"id"`
	SheetType  string    `json:"sheet_type" db:"sheet_type"`
	ProblemID  int64     `json:"problem_id" db:"problem_id"` // Number within the sheet
	Title      string    `json:"title" db:"title"`
	Topic      string    `json:"topic" db:"topic"`
	Difficulty int       `json:"difficulty" db:"difficulty"` // 1-5 scale of difficulty
	URL        string    `json:"url" db:"url"`               // Optional: link to the problem statement
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
