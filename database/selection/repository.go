// Package selection reads the delivery-day source and persists strike
// selection results under the same replace-wholly contract as the reduction
// results table.
package selection

import (
	"fmt"
	"log"

	models "nse-strike-analyzer/database/models_pkg"

	"gorm.io/gorm"
)

// Repository handles database operations for delivery-anchored selections
type Repository struct {
	db        *gorm.DB
	batchSize int
}

// NewRepository creates a new selection repository
func NewRepository(db *gorm.DB, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Repository{db: db, batchSize: batchSize}
}

// GetDeliveryDays retrieves each symbol's highest-delivery trading day for
// the analysis month
func (r *Repository) GetDeliveryDays(month string) ([]models.DeliveryDay, error) {
	var days []models.DeliveryDay
	err := r.db.Where("analysis_month = ?", month).
		Order("symbol ASC").
		Find(&days).Error
	if err != nil {
		return nil, fmt.Errorf("GetDeliveryDays: %w", err)
	}
	return days, nil
}

// ReplaceAll deletes every existing selection row and inserts the combined
// rows for all symbols in one batched transaction (all-or-nothing).
func (r *Repository) ReplaceAll(rows []*models.StrikeSelectionResult) (int, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM delivery_strike_selections").Error; err != nil {
			return fmt.Errorf("delete prior selections: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, r.batchSize).Error; err != nil {
			return fmt.Errorf("bulk insert selections: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ReplaceAll: %w", err)
	}

	log.Printf("💾 Persisted %d strike selection rows (replace-wholly)", len(rows))
	return len(rows), nil
}
