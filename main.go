package main

import (
	"flag"
	"log"

	"nse-strike-analyzer/app"
	"nse-strike-analyzer/config"
)

func main() {
	// Load config from .env file
	cfg := config.LoadFromEnv()

	// Minimal batch-job flags; everything else comes from the environment
	month := flag.String("month", "", "analysis month YYYY-MM (overrides ANALYSIS_MONTH)")
	dryRun := flag.Bool("dry-run", false, "compute and report without writing to destination tables")
	job := flag.String("job", app.JobAll, "job to run: reduction, delivery, or all")
	flag.Parse()

	if *month != "" {
		cfg.Analysis.Month = *month
	}
	if *dryRun {
		cfg.Analysis.DryRun = true
	}

	// Create and run app
	application := app.New(cfg)
	if err := application.Run(*job); err != nil {
		log.Fatal(err)
	}
}
