// Package database provides database connection management for the nse-strike-analyzer
// F&O bhavcopy analysis system.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - A raw database/sql connection (lib/pq) for the streaming bulk-join read
//   - Destination schema management for the analysis result tables
//   - Comprehensive error handling and validation
//
// Key Concepts:
//   - The fo_bhavcopy, strike_analysis, and delivery_analysis tables are
//     externally loaded and strictly read-only here
//   - Result tables (monthly_reduction_results, delivery_strike_selections)
//     follow a replace-wholly write contract: delete all rows, then one
//     batched insert, inside a single transaction
//
// Data Models:
//
//	All data models (StrikeAnalysis, MonthlyReductionResult, etc.) are defined
//	in the models_pkg package to avoid circular import dependencies.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "nse-strike-analyzer/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the underlying DB instance.
// It serves as the central connection point for all repository operations.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for batch runs
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ============================================================================
// Type Aliases
// ============================================================================

// Core data models - type aliases so callers can stay on the database package

type StrikeAnalysis = models.StrikeAnalysis
type DeliveryDay = models.DeliveryDay
type MonthlyReductionResult = models.MonthlyReductionResult
type StrikeSelectionResult = models.StrikeSelectionResult
