package spaced_repetition

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/algotrack/pkg/models"
)

// SM2 implements the SuperMemo-2 algorithm for free-form spaced repetition
type SM2 struct {
	// Пороговое значение "хорошего ответа"
	PassThreshold int
	// Максимальный интервал повторения в днях
	MaxInterval int
	// Начальный фактор легкости для новых записей
	StartingEase float64
}

// NewSM2 создает новый экземпляр SM2 с настройками по умолчанию
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold: 3,   // Ответы 3 и выше считаются успешными
		MaxInterval:   365, // Максимальный интервал - 1 год
		StartingEase:  2.5,
	}
}

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// NewRecord creates a fresh SM-2 record due one day from now.
func (sm *SM2) NewRecord(problemID int64, now time.Time) models.SRRecord {
	return models.SRRecord{
		ProblemID:      problemID,
		Interval:       1,
		Repetitions:    0,
		EaseFactor:     sm.StartingEase,
		LastReviewDate: now,
		NextReviewDate: now.AddDate(0, 0, 1),
	}
}

// Review applies the SM-2 algorithm to a record for one submitted answer.
// The ease factor is recomputed on every review, pass or fail, and never
// drops below 1.3. A failing answer resets repetitions and the interval.
func (sm *SM2) Review(record models.SRRecord, quality int, now time.Time) (models.SRRecord, error) {
	if quality < int(QualityBlackout) || quality > int(QualityPerfect) {
		return record, fmt.Errorf("quality must be between 0 and 5, got %d", quality)
	}

	// Calculate the easiness factor (EF)
	newEF := record.EaseFactor + (0.1 - (5.0-float64(quality))*(0.08+(5.0-float64(quality))*0.02))
	if newEF < 1.3 {
		newEF = 1.3 // Не опускаем ниже 1.3
	}
	record.EaseFactor = newEF

	if quality >= sm.PassThreshold {
		// Correct response
		switch record.Repetitions {
		case 0:
			record.Interval = 1
		case 1:
			record.Interval = 6
		default:
			record.Interval = int(math.Round(float64(record.Interval) * record.EaseFactor))
		}
		if record.Interval > sm.MaxInterval {
			record.Interval = sm.MaxInterval
		}
		record.Repetitions++
	} else {
		// Incorrect response - reset interval and repetition counter
		record.Repetitions = 0
		record.Interval = 1
	}

	record.Quality = quality
	record.LastReviewDate = now
	record.NextReviewDate = now.AddDate(0, 0, record.Interval)

	return record, nil
}

// DueRecords returns the records due for review at the given time, hardest
// and most overdue first.
func (sm *SM2) DueRecords(records []models.SRRecord, now time.Time) []models.SRRecord {
	var due []models.SRRecord
	for _, r := range records {
		if r.Due(now) {
			due = append(due, r)
		}
	}

	// Sort due items by priority:
	// 1. Records that have never been reviewed (repetitions = 0)
	// 2. Records with lowest ease factor (hardest problems)
	// 3. Records with earliest next review date
	sort.Slice(due, func(i, j int) bool {
		if due[i].Repetitions == 0 && due[j].Repetitions > 0 {
			return true
		}
		if due[j].Repetitions == 0 && due[i].Repetitions > 0 {
			return false
		}
		if due[i].EaseFactor != due[j].EaseFactor {
			return due[i].EaseFactor < due[j].EaseFactor
		}
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})

	return due
}

// IsMastered determines if a problem is considered "mastered"
func (sm *SM2) IsMastered(record *models.SRRecord) bool {
	// A problem is considered mastered if:
	// 1. It has been reviewed at least 5 times
	// 2. The latest quality response was 4 or 5
	// 3. The interval is at least 30 days
	return record.Repetitions >= 5 &&
		record.Quality >= int(QualityCorrectHesitation) &&
		record.Interval >= 30
}
