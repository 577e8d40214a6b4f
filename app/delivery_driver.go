package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"nse-strike-analyzer/config"
	"nse-strike-analyzer/database"
	"nse-strike-analyzer/database/history"
	"nse-strike-analyzer/database/selection"
	"nse-strike-analyzer/database/types"
)

// DeliveryDriver runs the delivery-anchored selection batch: for each
// symbol's highest-delivery trading day it resolves the nearest available
// F&O date on or after that day, invokes the strike selector with the day's
// close as target, attaches the delivery context, and persists all symbols'
// rows together.
type DeliveryDriver struct {
	selectionRepo *selection.Repository
	historyRepo   *history.Repository
	selector      *StrikeSelector
	checkpoint    *Checkpoint // nil when checkpointing is disabled
	cfg           config.AnalysisConfig
}

// NewDeliveryDriver creates a new delivery-anchored analysis driver
func NewDeliveryDriver(selectionRepo *selection.Repository, historyRepo *history.Repository, selector *StrikeSelector, checkpoint *Checkpoint, cfg config.AnalysisConfig) *DeliveryDriver {
	return &DeliveryDriver{
		selectionRepo: selectionRepo,
		historyRepo:   historyRepo,
		selector:      selector,
		checkpoint:    checkpoint,
		cfg:           cfg,
	}
}

// Run executes the batch for the configured analysis month
func (d *DeliveryDriver) Run() (*types.DeliveryRunSummary, error) {
	days, err := d.selectionRepo.GetDeliveryDays(d.cfg.Month)
	if err != nil {
		return nil, fmt.Errorf("delivery driver: %w", err)
	}
	log.Printf("🚚 Delivery-anchored analysis: %d symbols for %s", len(days), d.cfg.Month)

	summary := &types.DeliveryRunSummary{Month: d.cfg.Month, GeneratedAt: time.Now()}
	var rows []*database.StrikeSelectionResult
	start := 0

	if d.checkpoint != nil {
		if state, ok := d.checkpoint.Load(d.cfg.Month); ok {
			rows = state.Rows
			start = state.NextIndex
			log.Printf("⏯️  Resuming from checkpoint: %d symbols done, %d rows carried", start, len(rows))
		}
	}

	for i := start; i < len(days); i++ {
		day := days[i]

		symbolRows, skipped, err := d.processSymbol(day)
		if err != nil {
			// Validation problems are per-symbol anomalies; anything else is
			// a store failure and aborts the batch
			var vErr *database.ValidationError
			if errors.As(err, &vErr) {
				log.Printf("⚠️  Skipping %s: %v", day.Symbol, err)
				summary.SymbolsSkipped++
			} else {
				return nil, fmt.Errorf("delivery driver %s: %w", day.Symbol, err)
			}
		} else if skipped {
			summary.SymbolsSkipped++
		} else {
			summary.SymbolsProcessed++
			summary.TotalDeliveryQty += day.DeliveryQty
			if len(symbolRows) != database.TargetSelectionRows {
				summary.ShapeMismatches++
			}
			rows = append(rows, symbolRows...)
		}

		if d.checkpoint != nil {
			if err := d.checkpoint.Save(CheckpointState{
				Month:     d.cfg.Month,
				NextIndex: i + 1,
				Rows:      rows,
				UpdatedAt: time.Now(),
			}); err != nil {
				log.Printf("⚠️  Failed to save checkpoint: %v", err)
			}
		}
	}

	summary.RowsWritten = len(rows)

	if d.cfg.DryRun {
		log.Printf("🏜️  Dry run: %d selection rows not persisted", len(rows))
	} else {
		if _, err := d.selectionRepo.ReplaceAll(rows); err != nil {
			return nil, fmt.Errorf("delivery driver: %w", err)
		}
	}

	if d.checkpoint != nil {
		d.checkpoint.Clear()
	}

	return summary, nil
}

// processSymbol assembles the selection rows for one symbol's delivery day.
// skipped is true when the symbol has no F&O data on or after the delivery
// date, an expected condition rather than an error.
func (d *DeliveryDriver) processSymbol(day database.DeliveryDay) ([]*database.StrikeSelectionResult, bool, error) {
	resolved, err := d.historyRepo.FindTradingDateOnOrAfter(day.Symbol, day.PeakDate)
	if err != nil {
		return nil, false, err
	}
	if resolved == nil {
		log.Printf("⚠️  %s: no F&O data on/after %s, skipping", day.Symbol, day.PeakDate.Format("2006-01-02"))
		return nil, true, nil
	}

	selected, quotes, err := d.selector.SelectStrikes(day.Symbol, *resolved, day.ClosePrice)
	if err != nil {
		return nil, false, err
	}

	rows := expandSelection(day, *resolved, selected, quotes)
	return rows, false, nil
}

// expandSelection emits one result row per (selected strike, option type)
// present in the fetched chain, with the delivery-day context attached
func expandSelection(day database.DeliveryDay, tradeDate time.Time, selected []SelectedStrike, quotes []types.OptionQuote) []*database.StrikeSelectionResult {
	var rows []*database.StrikeSelectionResult
	for _, sel := range selected {
		for _, q := range quotes {
			if q.StrikePrice != sel.Price {
				continue
			}
			rows = append(rows, &database.StrikeSelectionResult{
				Symbol:         day.Symbol,
				TargetPrice:    day.ClosePrice,
				StrikePrice:    sel.Price,
				StrikePosition: sel.Position,
				OptionType:     q.OptionType,
				TradeDate:      tradeDate,

				ClosePrice:      q.ClosePrice,
				OpenInterest:    q.OpenInterest,
				ContractsTraded: q.ContractsTraded,
				ExpiryDate:      q.ExpiryDate,

				DeliveryDate:       day.PeakDate,
				DeliveryQty:        day.DeliveryQty,
				DeliveryClosePrice: day.ClosePrice,
			})
		}
	}
	return rows
}
