package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// Analysis configuration
	Analysis AnalysisConfig

	// Schedule configuration
	Schedule ScheduleConfig
}

// AnalysisConfig holds analysis parameters and thresholds
type AnalysisConfig struct {
	// Month under analysis, YYYY-MM
	Month string

	// Reduction scan
	ReductionTargetPct float64
	InsertBatchSize    int

	// Strike selection
	StrikesPerSide    int
	TargetStrikeCount int

	// Reporting
	LeaderboardLimit   int
	TopReductionsLimit int

	// When true, compute and report without writing to destination tables
	DryRun bool

	// Delivery driver checkpointing (side file, optional)
	CheckpointEnabled bool
	CheckpointFile    string
}

// ScheduleConfig holds the optional cron-scheduled run mode
type ScheduleConfig struct {
	Enabled bool
	// Cron expression (with seconds) for the full monthly run
	CronSpec string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "nse_data"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "nse"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "nse123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Analysis configuration
		Analysis: AnalysisConfig{
			Month: getEnvOrDefault("ANALYSIS_MONTH", "2025-02"),

			ReductionTargetPct: getEnvFloat("ANALYSIS_REDUCTION_TARGET_PCT", 50.0),
			InsertBatchSize:    getEnvInt("ANALYSIS_INSERT_BATCH_SIZE", 500),

			StrikesPerSide:    getEnvInt("ANALYSIS_STRIKES_PER_SIDE", 3),
			TargetStrikeCount: getEnvInt("ANALYSIS_TARGET_STRIKE_COUNT", 7),

			LeaderboardLimit:   getEnvInt("ANALYSIS_LEADERBOARD_LIMIT", 5),
			TopReductionsLimit: getEnvInt("ANALYSIS_TOP_REDUCTIONS_LIMIT", 10),

			DryRun: getEnvOrDefault("ANALYSIS_DRY_RUN", "false") == "true",

			CheckpointEnabled: getEnvOrDefault("ANALYSIS_CHECKPOINT_ENABLED", "false") == "true",
			CheckpointFile:    getEnvOrDefault("ANALYSIS_CHECKPOINT_FILE", ".delivery_checkpoint.json"),
		},

		// Schedule configuration
		Schedule: ScheduleConfig{
			Enabled:  getEnvOrDefault("SCHEDULE_ENABLED", "false") == "true",
			CronSpec: getEnvOrDefault("SCHEDULE_CRON", "0 0 19 * * 1-5"),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
