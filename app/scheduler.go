package app

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the full analysis on a cron schedule instead of once.
// Entries never overlap: the pipeline owns its destination tables
// exclusively, so a run that is still going blocks the next trigger.
type Scheduler struct {
	cron    *cron.Cron
	running chan struct{}
}

// NewScheduler creates a new Scheduler
func NewScheduler() *Scheduler {
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		running: make(chan struct{}, 1),
	}
	return s
}

// Register adds the analysis run under the given cron expression
func (s *Scheduler) Register(spec string, run func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		select {
		case s.running <- struct{}{}:
			defer func() { <-s.running }()
			run()
		default:
			log.Println("⚠️  Previous analysis run still in progress, skipping trigger")
		}
	})
	return err
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("⏰ Scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("⏰ Scheduler stopped")
}
