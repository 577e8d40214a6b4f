package database

import (
	"fmt"

	models "nse-strike-analyzer/database/models_pkg"
)

// InitSchema prepares the destination tables owned by this pipeline.
//
// The source tables (fo_bhavcopy, strike_analysis, delivery_analysis) are
// loaded by external tooling and are not migrated here; only the supporting
// index the bulk join depends on is created opportunistically.
func (d *Database) InitSchema() error {
	fmt.Println("🔄 Starting database schema initialization...")

	if err := d.db.AutoMigrate(
		&models.MonthlyReductionResult{},
		&models.StrikeSelectionResult{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// The bulk join matches on (symbol, strike, type) and range-scans
	// trade_date; without this index the single-query strategy degrades to a
	// sequential scan per month. Warn instead of failing when the externally
	// owned table is missing.
	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_fo_bhavcopy_strike_identity
		ON fo_bhavcopy (symbol, strike_price, option_type, trade_date)
	`).Error; err != nil {
		fmt.Printf("⚠️ Warning: Failed to create fo_bhavcopy join index: %v\n", err)
	}

	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_fo_bhavcopy_symbol_date
		ON fo_bhavcopy (symbol, trade_date)
	`).Error; err != nil {
		fmt.Printf("⚠️ Warning: Failed to create fo_bhavcopy date index: %v\n", err)
	}

	fmt.Println("✅ Database schema initialization completed successfully")
	return nil
}
