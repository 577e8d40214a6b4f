package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"nse-strike-analyzer/cache"
	"nse-strike-analyzer/config"
	"nse-strike-analyzer/database"
	"nse-strike-analyzer/database/history"
	"nse-strike-analyzer/database/reduction"
	"nse-strike-analyzer/database/selection"
)

// Job names selectable from the CLI
const (
	JobReduction = "reduction"
	JobDelivery  = "delivery"
	JobAll       = "all"
)

// App wires the analysis pipeline together
type App struct {
	config *config.Config

	db    *database.Database
	raw   *database.Conn
	redis *cache.RedisClient

	historyRepo   *history.Repository
	reductionRepo *reduction.Repository
	selectionRepo *selection.Repository

	scanner  *ReductionScanner
	selector *StrikeSelector
	driver   *DeliveryDriver
	reporter *Reporter
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// connect establishes the database, raw, and Redis connections and builds
// the repositories and pipeline components
func (a *App) connect() error {
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	raw, err := database.NewConnection(database.ConnConfig{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("raw database connection failed: %w", err)
	}
	a.raw = raw

	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Report caching disabled.")
	} else {
		a.redis = redisClient
	}

	if err := a.db.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	analysisCfg := a.config.Analysis

	a.historyRepo = history.NewRepository(a.db, a.raw)
	a.reductionRepo = reduction.NewRepository(a.db.DB(), analysisCfg.InsertBatchSize)
	a.selectionRepo = selection.NewRepository(a.db.DB(), analysisCfg.InsertBatchSize)

	a.scanner = NewReductionScanner(a.historyRepo, a.reductionRepo, analysisCfg)
	a.selector = NewStrikeSelector(a.historyRepo, analysisCfg)

	var checkpoint *Checkpoint
	if analysisCfg.CheckpointEnabled {
		checkpoint = NewCheckpoint(analysisCfg.CheckpointFile)
	}
	a.driver = NewDeliveryDriver(a.selectionRepo, a.historyRepo, a.selector, checkpoint, analysisCfg)
	a.reporter = NewReporter(a.redis, analysisCfg)

	return nil
}

// close releases all connections
func (a *App) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.raw != nil {
		a.raw.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Run connects and executes the requested job once (or, when the schedule
// is enabled, on every cron trigger until interrupted)
func (a *App) Run(job string) error {
	if err := a.connect(); err != nil {
		return err
	}
	defer a.close()

	if !a.config.Schedule.Enabled {
		return a.runJob(job)
	}

	scheduler := NewScheduler()
	if err := scheduler.Register(a.config.Schedule.CronSpec, func() {
		if err := a.runJob(job); err != nil {
			log.Printf("❌ Scheduled run failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register schedule %q: %w", a.config.Schedule.CronSpec, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Block until interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Println("👋 Shutting down...")
	return nil
}

// runJob executes one batch run of the requested job(s)
func (a *App) runJob(job string) error {
	switch job {
	case JobReduction:
		return a.runReduction()
	case JobDelivery:
		return a.runDelivery()
	case JobAll:
		if err := a.runReduction(); err != nil {
			return err
		}
		return a.runDelivery()
	default:
		return fmt.Errorf("unknown job %q (expected %s, %s, or %s)", job, JobReduction, JobDelivery, JobAll)
	}
}

// runReduction executes the monthly reduction scan and reports on it
func (a *App) runReduction() error {
	windowStart, windowEnd, err := MonthWindow(a.config.Analysis.Month)
	if err != nil {
		return err
	}

	outcomes, err := a.scanner.Run(windowStart, windowEnd)
	if err != nil {
		return err
	}

	report := a.reporter.BuildReport(outcomes)
	a.reporter.Print(report)
	a.reporter.Publish(context.Background(), report)
	return nil
}

// runDelivery executes the delivery-anchored strike selection batch
func (a *App) runDelivery() error {
	summary, err := a.driver.Run()
	if err != nil {
		return err
	}
	log.Printf("🚚 Delivery run complete: %d symbols processed, %d skipped, %d rows, %d shape mismatches",
		summary.SymbolsProcessed, summary.SymbolsSkipped, summary.RowsWritten, summary.ShapeMismatches)
	return nil
}
