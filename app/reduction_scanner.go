package app

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"nse-strike-analyzer/config"
	"nse-strike-analyzer/database"
	"nse-strike-analyzer/database/history"
	"nse-strike-analyzer/database/reduction"
	"nse-strike-analyzer/database/types"
)

// ReductionScanner runs the monthly strike-price reduction analysis: one
// bulk join pulls every base strike's subsequent history for the month, the
// joined rows are grouped and scanned in memory, and the outcomes are
// written back in a single batched insert.
//
// The whole point of this shape is the I/O count. The per-strike variant of
// this analysis issues one query per base strike; over tens of thousands of
// strikes that is a multi-hour run. With one join and one insert the same
// workload completes in minutes.
type ReductionScanner struct {
	historyRepo *history.Repository
	resultRepo  *reduction.Repository
	cfg         config.AnalysisConfig
}

// NewReductionScanner creates a new reduction scanner
func NewReductionScanner(historyRepo *history.Repository, resultRepo *reduction.Repository, cfg config.AnalysisConfig) *ReductionScanner {
	return &ReductionScanner{
		historyRepo: historyRepo,
		resultRepo:  resultRepo,
		cfg:         cfg,
	}
}

// Run executes the full scan for the window: fetch, compute, persist.
// Returns the computed outcomes for reporting. With DryRun set the
// destination table is left untouched.
func (s *ReductionScanner) Run(windowStart, windowEnd time.Time) ([]*database.MonthlyReductionResult, error) {
	baseCount, err := s.historyRepo.CountBaseStrikes()
	if err != nil {
		return nil, fmt.Errorf("reduction scan: %w", err)
	}
	log.Printf("🔍 Scanning %d base strikes for %s .. %s",
		baseCount, windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02"))

	joined, err := s.historyRepo.FetchJoinedHistory(windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("reduction scan: %w", err)
	}
	log.Printf("📥 Bulk join returned %d rows", len(joined))

	outcomes := s.ComputeOutcomes(joined)
	log.Printf("🧮 Computed %d reduction outcomes", len(outcomes))

	if s.cfg.DryRun {
		log.Println("🏜️  Dry run: skipping persistence")
		return outcomes, nil
	}

	if _, err := s.resultRepo.ReplaceAll(outcomes); err != nil {
		return nil, fmt.Errorf("reduction scan: %w", err)
	}
	persisted, err := s.resultRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("reduction scan: %w", err)
	}
	if persisted != int64(len(outcomes)) {
		log.Printf("⚠️  Destination holds %d rows, expected %d", persisted, len(outcomes))
	} else {
		log.Printf("✅ Verified %d rows in destination table", persisted)
	}
	return outcomes, nil
}

// ComputeOutcomes turns the joined table into exactly one outcome per
// distinct base strike. Groups are scanned in chronological order; the first
// day whose reduction reaches the target percentage wins, regardless of
// whether a later day fell deeper.
func (s *ReductionScanner) ComputeOutcomes(joined []types.JoinedHistoryRow) []*database.MonthlyReductionResult {
	target := s.cfg.ReductionTargetPct
	if target <= 0 {
		target = database.ReductionTargetPct
	}

	// Group by base strike identity, preserving first-seen order so output
	// is deterministic for identical input
	groups := make(map[int64][]types.JoinedHistoryRow)
	var order []int64
	for _, row := range joined {
		if _, seen := groups[row.AnalysisID]; !seen {
			order = append(order, row.AnalysisID)
		}
		groups[row.AnalysisID] = append(groups[row.AnalysisID], row)
	}

	outcomes := make([]*database.MonthlyReductionResult, 0, len(order))
	for _, id := range order {
		outcomes = append(outcomes, s.scanGroup(groups[id], target))
	}
	return outcomes
}

// scanGroup computes the outcome for one base strike's rows
func (s *ReductionScanner) scanGroup(rows []types.JoinedHistoryRow, target float64) *database.MonthlyReductionResult {
	base := rows[0]
	out := &database.MonthlyReductionResult{
		AnalysisID:     base.AnalysisID,
		Symbol:         base.Symbol,
		StrikePrice:    base.StrikePrice,
		OptionType:     base.OptionType,
		BaseTradeDate:  base.BaseTradeDate,
		BaseClosePrice: base.BaseClosePrice,
	}

	// Keep only rows the outer join actually matched
	var obs []types.JoinedHistoryRow
	for _, row := range rows {
		if row.TradeDate != nil && row.ClosePrice != nil {
			obs = append(obs, row)
		}
	}
	out.TotalTradingDays = len(obs)

	// A non-positive base price cannot anchor a percentage; the strike still
	// gets its one outcome row, just with no derived statistics
	if len(obs) == 0 || base.BaseClosePrice <= 0 {
		if base.BaseClosePrice <= 0 {
			log.Printf("⚠️  Skipping reduction math for %s %.2f %s: non-positive base price %.4f",
				base.Symbol, base.StrikePrice, base.OptionType, base.BaseClosePrice)
		}
		return out
	}

	// Chronological order is mandatory before the first-occurrence scan
	sort.Slice(obs, func(i, j int) bool {
		return obs[i].TradeDate.Before(*obs[j].TradeDate)
	})

	reductions := make([]float64, len(obs))
	for i, row := range obs {
		reductions[i] = (base.BaseClosePrice - *row.ClosePrice) / base.BaseClosePrice * 100
	}

	maxIdx := 0
	var sum float64
	for i, pct := range reductions {
		sum += pct
		if pct > reductions[maxIdx] {
			maxIdx = i
		}

		// >= not >: an exact hit on the target counts as found
		if !out.Reduction50Found && pct >= target {
			out.Reduction50Found = true
			d := *obs[i].TradeDate
			p := *obs[i].ClosePrice
			// Calendar days, not trading days
			days := int(d.Sub(base.BaseTradeDate).Hours() / 24)
			out.Reduction50Date = &d
			out.Reduction50Price = &p
			out.Reduction50Percentage = sanitize(pct)
			out.DaysTo50Reduction = &days
		}
	}

	maxDate := *obs[maxIdx].TradeDate
	maxPrice := *obs[maxIdx].ClosePrice
	out.MaxReductionPercentage = sanitize(reductions[maxIdx])
	out.MaxReductionDate = &maxDate
	out.MaxReductionPrice = &maxPrice

	mean := sum / float64(len(reductions))
	out.AvgDailyReduction = sanitize(mean)
	out.VolatilityScore = sanitize(sampleStdDev(reductions, mean))

	best, worst := reductions[0], reductions[0]
	for _, pct := range reductions[1:] {
		if pct < best {
			best = pct
		}
		if pct > worst {
			worst = pct
		}
	}
	out.BestSingleDayGain = sanitize(best)
	out.WorstSingleDayLoss = sanitize(worst)

	last := obs[len(obs)-1]
	finalPrice := *last.ClosePrice
	out.FinalMonthPrice = &finalPrice
	out.MonthEndReduction = sanitize(reductions[len(reductions)-1])

	return out
}

// sampleStdDev returns the sample standard deviation (n-1 denominator) of
// the series, 0 for a single observation
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// sanitize coerces a computed value to something the destination numeric
// columns can hold: NaN/Inf become NULL, magnitudes beyond the ceiling are
// clamped (signed). Near-zero base prices produce percentages in the tens
// of millions, which would otherwise fail the insert.
func sanitize(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	if v > database.NumericCeiling {
		v = database.NumericCeiling
	} else if v < -database.NumericCeiling {
		v = -database.NumericCeiling
	}
	return &v
}

// MonthWindow resolves a YYYY-MM month string to its inclusive date window
func MonthWindow(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid analysis month %q: %w", month, err)
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}
