package scheduler

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/algotrack/internal/engine"
	"github.com/example/algotrack/internal/mover"
	"github.com/go-co-op/gocron"
)

// Час запуска ночного прогона по умолчанию
const DefaultMoverHour = 3

// BatchMover runs the stage mover for one user or for everyone.
type BatchMover interface {
	RunMover(userID int64, sheetType string, now time.Time) (*mover.Result, error)
	RunMoverAllUsers(now time.Time) (*engine.BatchResult, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	mover     BatchMover
}

// New creates a new scheduler instance
func New(mover BatchMover) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		mover:     mover,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Schedule the daily batch run of the stage mover
	s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", moverHour())).Do(s.runBatchMover)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// moverHour returns the UTC hour of the nightly run, MOVER_HOUR overrides it.
func moverHour() int {
	if hourStr := os.Getenv("MOVER_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return DefaultMoverHour
}

// runBatchMover advances stage items for every user. Per-user failures are
// handled inside the engine; only the aggregate outcome is logged here.
func (s *Scheduler) runBatchMover() {
	result, err := s.mover.RunMoverAllUsers(time.Now())
	if err != nil {
		log.Printf("Batch mover run failed: %v", err)
		return
	}
	log.Printf("Batch mover finished: %d sheets processed, %d succeeded, %d failed, %d items moved",
		result.Processed, result.Succeeded, result.Failed, result.Moved)
}

// RunManualCheck forces a mover pass for a specific user's sheet
func (s *Scheduler) RunManualCheck(userID int64, sheetType string) (*mover.Result, error) {
	return s.mover.RunMover(userID, sheetType, time.Now())
}
