package database

import (
	"database/sql"
	"fmt"

	"github.com/example/algotrack/pkg/models"
)

// ProblemRepository handles database operations for the problem catalog
type ProblemRepository struct{}

// NewProblemRepository creates a new repository instance
func NewProblemRepository() *ProblemRepository {
	return &ProblemRepository{}
}

// GetBySheet returns all catalog problems for a sheet, in sheet order
func (r *ProblemRepository) GetBySheet(sheetType string) ([]models.Problem, error) {
	var problems []models.Problem
	err := DB.Select(&problems, `
		SELECT * FROM problems WHERE sheet_type = $1 ORDER BY problem_id ASC
	`, sheetType)
	if err != nil {
		return nil, fmt.Errorf("failed to get problems: %v", err)
	}
	return problems, nil
}

// GetByProblemID returns one catalog entry, or nil when the sheet doesn't list it
func (r *ProblemRepository) GetByProblemID(sheetType string, problemID int64) (*models.Problem, error) {
	var problem models.Problem
	err := DB.Get(&problem, `
		SELECT * FROM problems WHERE sheet_type = $1 AND problem_id = $2
	`, sheetType, problemID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %v", err)
	}
	return &problem, nil
}

// Upsert creates or refreshes a catalog entry
func (r *ProblemRepository) Upsert(problem *models.Problem) error {
	_, err := DB.Exec(`
		INSERT INTO problems (sheet_type, problem_id, title, topic, difficulty, url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (sheet_type, problem_id) DO UPDATE SET
			title = EXCLUDED.title,
			topic = EXCLUDED.topic,
			difficulty = EXCLUDED.difficulty,
			url = EXCLUDED.url,
			updated_at = CURRENT_TIMESTAMP
	`,
		problem.SheetType,
		problem.ProblemID,
		problem.Title,
		problem.Topic,
		problem.Difficulty,
		problem.URL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert problem: %v", err)
	}
	return nil
}

// Count returns the number of problems in a sheet
func (r *ProblemRepository) Count(sheetType string) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM problems WHERE sheet_type = $1", sheetType)
	if err != nil {
		return 0, fmt.Errorf("failed to count problems: %v", err)
	}
	return count, nil
}
