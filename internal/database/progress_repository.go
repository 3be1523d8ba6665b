package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/algotrack/pkg/models"
)

// Errors reported by the progress repository.
var (
	// ErrMalformedStore means the stored JSON could not be normalized into
	// the canonical bucket shape.
	ErrMalformedStore = errors.New("malformed progress store")
	// ErrVersionConflict means a concurrent writer committed first.
	ErrVersionConflict = errors.New("progress store version conflict")
)

// ProgressRepository handles database operations for sheet progress
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

type progressRow struct {
	UserID    int64  `db:"user_id"`
	SheetType string `db:"sheet_type"`
	Custom    string `db:"custom_spaced_repetition"`
	Adaptive  string `db:"spaced_repetition"`
	Version   int64  `db:"version"`
}

// Load returns the progress for one user and sheet. A missing row yields an
// empty skeleton with version 0; Save then inserts it. Both legacy on-disk
// bucket shapes are normalized here, so callers only ever see the canonical
// one.
func (r *ProgressRepository) Load(userID int64, sheetType string) (*models.SheetProgress, error) {
	var row progressRow
	err := DB.Get(&row, `
		SELECT user_id, sheet_type, custom_spaced_repetition, spaced_repetition, version
		FROM sheet_progress
		WHERE user_id = $1 AND sheet_type = $2
	`, userID, sheetType)
	if err == sql.ErrNoRows {
		return models.NewSheetProgress(userID, sheetType), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %v", err)
	}

	progress := models.NewSheetProgress(userID, sheetType)
	progress.Version = row.Version

	if strings.TrimSpace(row.Custom) != "" {
		if err := json.Unmarshal([]byte(row.Custom), &progress.Custom); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrMalformedStore,
				models.SheetKey{UserID: userID, SheetType: sheetType}, err)
		}
	}
	if strings.TrimSpace(row.Adaptive) != "" {
		if err := json.Unmarshal([]byte(row.Adaptive), &progress.Adaptive); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrMalformedStore,
				models.SheetKey{UserID: userID, SheetType: sheetType}, err)
		}
	}

	return progress, nil
}

// Save writes the progress back as one unit. The version column acts as a
// compare-and-swap guard: a stale in-memory copy is rejected with
// ErrVersionConflict instead of silently overwriting a concurrent update.
func (r *ProgressRepository) Save(progress *models.SheetProgress) error {
	customJSON, err := json.Marshal(progress.Custom)
	if err != nil {
		return fmt.Errorf("failed to marshal stage buckets: %v", err)
	}
	adaptiveJSON, err := json.Marshal(progress.Adaptive)
	if err != nil {
		return fmt.Errorf("failed to marshal adaptive records: %v", err)
	}

	if progress.Version == 0 {
		_, err := DB.Exec(`
			INSERT INTO sheet_progress (user_id, sheet_type, custom_spaced_repetition, spaced_repetition, version)
			VALUES ($1, $2, $3, $4, 1)
		`, progress.UserID, progress.SheetType, string(customJSON), string(adaptiveJSON))
		if err != nil {
			// The unique index trips when another writer inserted first.
			return fmt.Errorf("%w: %v", ErrVersionConflict, err)
		}
		progress.Version = 1
		return nil
	}

	result, err := DB.Exec(`
		UPDATE sheet_progress SET
			custom_spaced_repetition = $1,
			spaced_repetition = $2,
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $3 AND sheet_type = $4 AND version = $5
	`, string(customJSON), string(adaptiveJSON), progress.UserID, progress.SheetType, progress.Version)
	if err != nil {
		return fmt.Errorf("failed to save progress: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w for %s", ErrVersionConflict,
			models.SheetKey{UserID: progress.UserID, SheetType: progress.SheetType})
	}
	progress.Version++
	return nil
}

// Sheets enumerates every stored (user, sheet) pair for the batch mover.
func (r *ProgressRepository) Sheets() ([]models.SheetKey, error) {
	var keys []models.SheetKey
	err := DB.Select(&keys, `
		SELECT user_id, sheet_type FROM sheet_progress ORDER BY user_id, sheet_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %v", err)
	}
	return keys, nil
}

// SheetsForUser returns the sheet types a user has progress on.
func (r *ProgressRepository) SheetsForUser(userID int64) ([]string, error) {
	var sheets []string
	err := DB.Select(&sheets, `
		SELECT sheet_type FROM sheet_progress WHERE user_id = $1 ORDER BY sheet_type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets for user: %v", err)
	}
	return sheets, nil
}

// Delete removes a user's progress for one sheet.
func (r *ProgressRepository) Delete(userID int64, sheetType string) error {
	_, err := DB.Exec("DELETE FROM sheet_progress WHERE user_id = $1 AND sheet_type = $2", userID, sheetType)
	return err
}
