package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/algotrack/internal/mover"
	"github.com/example/algotrack/internal/spaced_repetition"
	"github.com/example/algotrack/pkg/models"
)

// Sentinel errors surfaced to callers. Duplicate adds on the stage machine are
// not errors (see AddSolved); duplicate adds on the adaptive scheduler are.
var (
	ErrNotFound  = errors.New("review item not found")
	ErrDuplicate = errors.New("problem already tracked")
)

// ProgressStore is the persistence boundary the engine works against.
type ProgressStore interface {
	// Load returns the progress for one user and sheet, an empty skeleton
	// when none is stored yet.
	Load(userID int64, sheetType string) (*models.SheetProgress, error)
	// Save writes the progress back as one unit.
	Save(progress *models.SheetProgress) error
	// Sheets enumerates every stored (user, sheet) pair.
	Sheets() ([]models.SheetKey, error)
}

// Engine exposes the scheduling operations to external collaborators.
// Reads and writes for one (user, sheet) pair are serialized through a
// per-key lock so the batch mover and on-demand calls cannot race.
type Engine struct {
	store   ProgressStore
	machine *spaced_repetition.StageMachine
	sm2     *spaced_repetition.SM2
	mover   *mover.Mover

	mu    sync.Mutex
	locks map[models.SheetKey]*sync.Mutex
}

// New creates an engine on top of the given store.
func New(store ProgressStore) *Engine {
	machine := spaced_repetition.NewStageMachine()
	return &Engine{
		store:   store,
		machine: machine,
		sm2:     spaced_repetition.NewSM2(),
		mover:   mover.New(machine),
		locks:   make(map[models.SheetKey]*sync.Mutex),
	}
}

// lockSheet acquires the per-key mutex for one (user, sheet) pair.
func (e *Engine) lockSheet(userID int64, sheetType string) *sync.Mutex {
	key := models.SheetKey{UserID: userID, SheetType: sheetType}
	e.mu.Lock()
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[key] = lock
	}
	e.mu.Unlock()
	lock.Lock()
	return lock
}

// AddResult reports the outcome of AddSolved.
type AddResult struct {
	Added bool         // False when the problem was already tracked
	Stage models.Stage // Stage holding the problem after the call
}

// AddSolved seeds a review item in the today stage for a freshly solved
// problem. A problem already present in any stage is left untouched and
// reported as already tracked rather than as an error.
func (e *Engine) AddSolved(userID int64, sheetType string, problemID int64, now time.Time) (*AddResult, error) {
	lock := e.lockSheet(userID, sheetType)
	defer lock.Unlock()

	progress, err := e.store.Load(userID, sheetType)
	if err != nil {
		return nil, err
	}

	if stage, ok := progress.Custom.IndexByProblem()[problemID]; ok {
		return &AddResult{Added: false, Stage: stage}, nil
	}

	item := e.machine.NewItem(problemID, now)
	progress.Custom.Today = append(progress.Custom.Today, item)
	if err := e.store.Save(progress); err != nil {
		return nil, err
	}
	return &AddResult{Added: true, Stage: models.StageToday}, nil
}

// SetChecked sets the retention confirmation flag on the item in whichever
// stage currently holds it.
func (e *Engine) SetChecked(userID int64, sheetType string, problemID int64, checked bool) error {
	lock := e.lockSheet(userID, sheetType)
	defer lock.Unlock()

	progress, err := e.store.Load(userID, sheetType)
	if err != nil {
		return err
	}

	stage, i, ok := progress.Custom.Find(problemID)
	if !ok {
		return fmt.Errorf("%w: problem %d in sheet %q", ErrNotFound, problemID, sheetType)
	}
	(*progress.Custom.Bucket(stage))[i].IsChecked = checked

	return e.store.Save(progress)
}

// RunMover applies the stage machine to every item of one user's sheet and
// persists the re-partitioned buckets. On-demand errors surface directly.
func (e *Engine) RunMover(userID int64, sheetType string, now time.Time) (*mover.Result, error) {
	lock := e.lockSheet(userID, sheetType)
	defer lock.Unlock()

	progress, err := e.store.Load(userID, sheetType)
	if err != nil {
		return nil, err
	}

	result := e.mover.Move(&progress.Custom, now)
	if result.Moved == 0 {
		return result, nil
	}
	if err := e.store.Save(progress); err != nil {
		return nil, err
	}
	return result, nil
}

// BatchResult aggregates one batch mover run across all users.
type BatchResult struct {
	Processed int // Sheets visited
	Succeeded int
	Failed    int
	Moved     int // Total items promoted across all sheets
}

// RunMoverAllUsers runs the mover over every stored (user, sheet) pair.
// A failure on one sheet is logged, counted and skipped; it never aborts
// the rest of the run.
func (e *Engine) RunMoverAllUsers(now time.Time) (*BatchResult, error) {
	keys, err := e.store.Sheets()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate sheets: %v", err)
	}

	result := &BatchResult{}
	for _, key := range keys {
		result.Processed++
		moveResult, err := e.RunMover(key.UserID, key.SheetType, now)
		if err != nil {
			log.Printf("Mover failed for %s: %v", key, err)
			result.Failed++
			continue
		}
		result.Succeeded++
		result.Moved += moveResult.Moved
	}
	return result, nil
}

// StageSnapshot is a read-only view of one sheet's stage membership.
type StageSnapshot struct {
	Buckets models.StageBuckets
	Counts  map[models.Stage]int
	Total   int
}

// GetStageSnapshot returns all stage arrays and their counts without
// mutating anything.
func (e *Engine) GetStageSnapshot(userID int64, sheetType string) (*StageSnapshot, error) {
	lock := e.lockSheet(userID, sheetType)
	defer lock.Unlock()

	progress, err := e.store.Load(userID, sheetType)
	if err != nil {
		return nil, err
	}
	return &StageSnapshot{
		Buckets: progress.Custom,
		Counts:  progress.Custom.Counts(),
		Total:   progress.Custom.Total(),
	}, nil
}

// AddToAdaptive creates a fresh SM-2 record for a problem, due tomorrow.
func (e *Engine) AddToAdaptive(userID int64, sheetType string, problemID int64, now time.Time) (*models.SRRecord, error) {
	lock := e.lockSheet(userID, sheetType)
	defer lock.Unlock()

	progress, err := e.store.Load(userID, sheetType)
	if err != nil {
		return nil, err
	}

	if progress.FindRecord(problemID) != nil {
		return nil, fmt.Errorf("%w: problem %d in sheet %q", ErrDuplicate, problemID, sheetType)
	}

	record := e.sm2.NewRecord(problemID, now)
	progress.Adaptive = append(progress.Adaptive, record)
	if err := e.store.Save(progress); err != nil {
		return nil, err
	}
	return &record, nil
}

// SubmitReview applies one SM-2 review to a problem's record. The batch
// mover never touches these records; this is the only mutation path.
func (e *Engine) SubmitReview(userID int64, sheetType string, problemID int64, quality int, now time.Time) (*models.SRRecord, error) {
	lock := e.lockSheet(userID, sheetType)
	defer lock.Unlock()

	progress, err := e.store.Load(userID, sheetType)
	if err != nil {
		return nil, err
	}

	record := progress.FindRecord(problemID)
	if record == nil {
		return nil, fmt.Errorf("%w: problem %d in sheet %q", ErrNotFound, problemID, sheetType)
	}

	updated, err := e.sm2.Review(*record, quality, now)
	if err != nil {
		return nil, err
	}
	*record = updated

	if err := e.store.Save(progress); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetDueAdaptive returns the SM-2 records due at the given time.
func (e *Engine) GetDueAdaptive(userID int64, sheetType string, now time.Time) ([]models.SRRecord, error) {
	lock := e.lockSheet(userID, sheetType)
	defer lock.Unlock()

	progress, err := e.store.Load(userID, sheetType)
	if err != nil {
		return nil, err
	}
	return e.sm2.DueRecords(progress.Adaptive, now), nil
}
