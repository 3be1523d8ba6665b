package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/algotrack/internal/database"
	"github.com/example/algotrack/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	SheetType        string // Sheet the problems belong to
	ProblemColumn    string // Column with the problem number
	TitleColumn      string // Column with the title
	TopicColumn      string // Column with the topic
	DifficultyColumn string // Column with the difficulty
	URLColumn        string // Column with the problem link
	SheetName        string // Name of the workbook sheet to import
	StartRow         int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		ProblemColumn:    "A",
		TitleColumn:      "B",
		TopicColumn:      "C",
		DifficultyColumn: "D",
		URLColumn:        "E",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportProblems imports a problem sheet from an Excel or CSV file
func ImportProblems(config ImportConfig) (*ImportResult, error) {
	if config.SheetType == "" {
		return nil, fmt.Errorf("sheet type is required")
	}

	// Check the file extension
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		// Process as CSV
		return importFromCSV(config)
	}

	// Process as Excel
	return importFromExcel(config)
}

// importFromExcel imports problems from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	// Open Excel file
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	problemRepo := database.NewProblemRepository()

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	// Get rows from Excel
	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	// Process rows
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, problemRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports problems from a CSV file
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	problemRepo := database.NewProblemRepository()

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	reader := csv.NewReader(file)
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, problemRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// columnIndex converts an A-style column letter to a 0-based index
func columnIndex(column string) int {
	index := 0
	for _, r := range strings.ToUpper(column) {
		index = index*26 + int(r-'A') + 1
	}
	return index - 1
}

// cell returns the trimmed value of a column in a row, empty when out of range
func cell(row []string, column string) string {
	idx := columnIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// processRow imports a single row into the problem catalog
func processRow(row []string, config ImportConfig, problemRepo *database.ProblemRepository, result *ImportResult) error {
	problemStr := cell(row, config.ProblemColumn)
	title := cell(row, config.TitleColumn)

	// Rows without a problem number or title are skipped, not failed
	if problemStr == "" || title == "" {
		result.Skipped++
		return nil
	}

	problemID, err := strconv.ParseInt(problemStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid problem number %q", problemStr)
	}

	difficulty := 1
	if diffStr := cell(row, config.DifficultyColumn); diffStr != "" {
		if d, err := strconv.Atoi(diffStr); err == nil && d >= 1 && d <= 5 {
			difficulty = d
		}
	}

	problem := &models.Problem{
		SheetType:  config.SheetType,
		ProblemID:  problemID,
		Title:      title,
		Topic:      cell(row, config.TopicColumn),
		Difficulty: difficulty,
		URL:        cell(row, config.URLColumn),
	}

	if err := problemRepo.Upsert(problem); err != nil {
		return err
	}

	result.Imported++
	return nil
}
