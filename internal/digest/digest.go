// Package digest builds read-only projections of review state for the
// notification collaborator. Nothing here mutates scheduling state.
package digest

import (
	"time"

	"github.com/example/algotrack/internal/spaced_repetition"
	"github.com/example/algotrack/pkg/models"
)

// StageDigest summarizes one sheet's stage-machine state.
type StageDigest struct {
	// Items sitting in today, unconditionally due for a first review
	DueNow []models.ReviewItem
	// Every non-completed stage and its items, all considered in flight
	InFlight map[models.Stage][]models.ReviewItem
	Counts   map[models.Stage]int
}

// BuildStageDigest projects the stage buckets into a digest.
func BuildStageDigest(buckets *models.StageBuckets) *StageDigest {
	d := &StageDigest{
		InFlight: make(map[models.Stage][]models.ReviewItem),
		Counts:   buckets.Counts(),
	}
	d.DueNow = append(d.DueNow, buckets.Today...)
	for _, stage := range models.StageOrder {
		if stage.Terminal() {
			continue
		}
		items := *buckets.Bucket(stage)
		if len(items) > 0 {
			d.InFlight[stage] = items
		}
	}
	return d
}

// DueAdaptive returns the SM-2 records with a next review date at or before
// now, hardest first.
func DueAdaptive(records []models.SRRecord, now time.Time) []models.SRRecord {
	return spaced_repetition.NewSM2().DueRecords(records, now)
}

// ProgressStore is the read side of the progress persistence.
type ProgressStore interface {
	Load(userID int64, sheetType string) (*models.SheetProgress, error)
}

// ProblemCatalog resolves problem numbers to catalog entries.
type ProblemCatalog interface {
	GetBySheet(sheetType string) ([]models.Problem, error)
}

// Reader assembles digests for one user, enriched with problem titles.
type Reader struct {
	store   ProgressStore
	catalog ProblemCatalog
}

// NewReader creates a digest reader.
func NewReader(store ProgressStore, catalog ProblemCatalog) *Reader {
	return &Reader{store: store, catalog: catalog}
}

// Digest is the full per-sheet summary handed to the notification collaborator.
type Digest struct {
	UserID    int64
	SheetType string
	Stages    *StageDigest
	Adaptive  []models.SRRecord // Due SM-2 records
	Titles    map[int64]string  // Problem number to title, where known
}

// ForUser builds the digest for one user's sheet at the given time.
func (r *Reader) ForUser(userID int64, sheetType string, now time.Time) (*Digest, error) {
	progress, err := r.store.Load(userID, sheetType)
	if err != nil {
		return nil, err
	}

	d := &Digest{
		UserID:    userID,
		SheetType: sheetType,
		Stages:    BuildStageDigest(&progress.Custom),
		Adaptive:  DueAdaptive(progress.Adaptive, now),
		Titles:    make(map[int64]string),
	}

	// Title lookup is best effort: a missing catalog never blocks the digest.
	if r.catalog != nil {
		problems, err := r.catalog.GetBySheet(sheetType)
		if err == nil {
			for _, p := range problems {
				d.Titles[p.ProblemID] = p.Title
			}
		}
	}

	return d, nil
}
