// Package reduction persists monthly reduction outcomes. The destination
// table follows a replace-wholly contract: every run deletes all prior rows
// and bulk-inserts the new result set inside one transaction.
package reduction

import (
	"fmt"
	"log"

	models "nse-strike-analyzer/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for reduction results
type Repository struct {
	db        *gorm.DB
	batchSize int
}

// NewRepository creates a new reduction results repository
func NewRepository(db *gorm.DB, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Repository{db: db, batchSize: batchSize}
}

// ReplaceAll deletes every existing result row and inserts the full new set
// in one batched operation. The delete and insert share a transaction, so a
// failed insert rolls the destination back to its previous state rather
// than leaving it empty or partial.
func (r *Repository) ReplaceAll(results []*models.MonthlyReductionResult) (int, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM monthly_reduction_results").Error; err != nil {
			return fmt.Errorf("delete prior results: %w", err)
		}
		if len(results) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(results, r.batchSize).Error; err != nil {
			return fmt.Errorf("bulk insert results: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ReplaceAll: %w", err)
	}

	log.Printf("💾 Persisted %d reduction results (replace-wholly)", len(results))
	return len(results), nil
}

// Count returns the number of persisted result rows
func (r *Repository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.MonthlyReductionResult{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}
