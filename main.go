package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/algotrack/internal/database"
	"github.com/example/algotrack/internal/digest"
	"github.com/example/algotrack/internal/engine"
	"github.com/example/algotrack/internal/excel"
	"github.com/example/algotrack/internal/scheduler"
	"github.com/example/algotrack/pkg/models"
	"github.com/joho/godotenv"
)

func main() {
	importFile := flag.String("import", "", "Import a problem sheet from an XLSX or CSV file and exit")
	sheetType := flag.String("sheet", "", "Sheet type for -import and -digest-user")
	runMover := flag.Bool("run-mover", false, "Run one batch mover pass for all users and exit")
	digestUser := flag.Int64("digest-user", 0, "Print the review digest for a user and exit")
	flag.Parse()

	// .env не обязателен, переменные окружения имеют приоритет
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	// Подключаемся к базе данных
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importFile != "" {
		config := excel.DefaultImportConfig()
		config.FilePath = *importFile
		config.SheetType = *sheetType

		result, err := excel.ImportProblems(config)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import finished: %d rows processed, %d imported, %d skipped, %d errors",
			result.TotalProcessed, result.Imported, result.Skipped, len(result.Errors))
		for _, e := range result.Errors {
			log.Printf("  %s", e)
		}
		return
	}

	if *digestUser != 0 {
		reader := digest.NewReader(database.NewProgressRepository(), database.NewProblemRepository())
		d, err := reader.ForUser(*digestUser, *sheetType, time.Now())
		if err != nil {
			log.Fatalf("Failed to build digest: %v", err)
		}
		printDigest(d)
		return
	}

	eng := engine.New(database.NewProgressRepository())

	if *runMover {
		result, err := eng.RunMoverAllUsers(time.Now())
		if err != nil {
			log.Fatalf("Batch mover run failed: %v", err)
		}
		log.Printf("Batch mover finished: %d sheets processed, %d succeeded, %d failed, %d items moved",
			result.Processed, result.Succeeded, result.Failed, result.Moved)
		return
	}

	// Запускаем ежедневный прогон
	sched := scheduler.New(eng)
	sched.Start()

	log.Println("Scheduler started. Press Ctrl+C to stop.")

	// Ждем сигнала завершения
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	sched.Stop()
	log.Println("Scheduler stopped successfully")
}

// printDigest writes a digest to the log in a readable form
func printDigest(d *digest.Digest) {
	log.Printf("Digest for user %d, sheet %q", d.UserID, d.SheetType)
	for _, stage := range models.StageOrder {
		log.Printf("  %-10s %d", stage, d.Stages.Counts[stage])
	}
	for _, item := range d.Stages.DueNow {
		log.Printf("  due now: problem %d %s", item.ProblemID, d.Titles[item.ProblemID])
	}
	for _, record := range d.Adaptive {
		log.Printf("  due review: problem %d %s (interval %dd)",
			record.ProblemID, d.Titles[record.ProblemID], record.Interval)
	}
}
