package app

import (
	"context"
	"log"
	"sort"
	"time"

	"nse-strike-analyzer/cache"
	"nse-strike-analyzer/config"
	"nse-strike-analyzer/database"
	"nse-strike-analyzer/database/types"
	"nse-strike-analyzer/helpers"
)

// Reporter aggregates a run's reduction outcomes into summary statistics:
// success rate, timing, per-symbol leaderboards, and the best individual
// reductions. Read-only over the outcomes; the only side effect is the
// optional Redis publication.
type Reporter struct {
	redis *cache.RedisClient // nil disables caching
	cfg   config.AnalysisConfig
}

// NewReporter creates a new reporter
func NewReporter(redis *cache.RedisClient, cfg config.AnalysisConfig) *Reporter {
	return &Reporter{redis: redis, cfg: cfg}
}

// BuildReport aggregates the outcomes of one completed run
func (r *Reporter) BuildReport(outcomes []*database.MonthlyReductionResult) *types.ReductionReport {
	report := &types.ReductionReport{
		Month:       r.cfg.Month,
		GeneratedAt: time.Now(),
	}

	report.TotalStrikes = len(outcomes)

	perSymbol := make(map[string]*types.SymbolSuccessRate)
	var daysSum, maxReductionSum float64
	var maxReductionCount int

	for _, out := range outcomes {
		sym := perSymbol[out.Symbol]
		if sym == nil {
			sym = &types.SymbolSuccessRate{Symbol: out.Symbol}
			perSymbol[out.Symbol] = sym
		}
		sym.TotalStrikes++

		if out.TotalTradingDays == 0 || out.MaxReductionPercentage == nil {
			report.NoDataCount++
		} else {
			maxReductionSum += *out.MaxReductionPercentage
			maxReductionCount++
		}

		if out.Reduction50Found {
			report.FoundCount++
			sym.FoundCount++

			if out.DaysTo50Reduction != nil {
				days := *out.DaysTo50Reduction
				daysSum += float64(days)
				if report.FoundCount == 1 || days < report.MinDaysToTarget {
					report.MinDaysToTarget = days
				}
				if days > report.MaxDaysToTarget {
					report.MaxDaysToTarget = days
				}
			}

			if out.Reduction50Percentage != nil && out.Reduction50Date != nil {
				days := 0
				if out.DaysTo50Reduction != nil {
					days = *out.DaysTo50Reduction
				}
				report.TopReductions = append(report.TopReductions, types.TopReduction{
					Symbol:       out.Symbol,
					StrikePrice:  out.StrikePrice,
					OptionType:   out.OptionType,
					ReductionPct: *out.Reduction50Percentage,
					ReductionDay: *out.Reduction50Date,
					DaysToTarget: days,
				})
			}
		}
	}

	if report.TotalStrikes > 0 {
		report.SuccessRatePct = float64(report.FoundCount) / float64(report.TotalStrikes) * 100
	}
	if report.FoundCount > 0 {
		report.AvgDaysToTarget = daysSum / float64(report.FoundCount)
	}
	if maxReductionCount > 0 {
		report.AvgMaxReductionPct = maxReductionSum / float64(maxReductionCount)
	}

	// Leaderboards: success rate desc for the top, asc for the bottom;
	// symbol name breaks ties so output is stable
	var rates []types.SymbolSuccessRate
	for _, sym := range perSymbol {
		if sym.TotalStrikes >= database.MinStrikesForLeaderboard {
			sym.SuccessRate = float64(sym.FoundCount) / float64(sym.TotalStrikes) * 100
			rates = append(rates, *sym)
		}
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].SuccessRate != rates[j].SuccessRate {
			return rates[i].SuccessRate > rates[j].SuccessRate
		}
		return rates[i].Symbol < rates[j].Symbol
	})
	limit := r.leaderboardLimit()
	report.TopSymbols = headSymbols(rates, limit)
	reversed := make([]types.SymbolSuccessRate, len(rates))
	for i, sym := range rates {
		reversed[len(rates)-1-i] = sym
	}
	report.BottomSymbols = headSymbols(reversed, limit)

	sort.Slice(report.TopReductions, func(i, j int) bool {
		if report.TopReductions[i].ReductionPct != report.TopReductions[j].ReductionPct {
			return report.TopReductions[i].ReductionPct > report.TopReductions[j].ReductionPct
		}
		return report.TopReductions[i].Symbol < report.TopReductions[j].Symbol
	})
	if topN := r.topReductionsLimit(); len(report.TopReductions) > topN {
		report.TopReductions = report.TopReductions[:topN]
	}

	return report
}

// Print writes the report to the log
func (r *Reporter) Print(report *types.ReductionReport) {
	log.Printf("📊 ===== Monthly Reduction Report (%s) =====", report.Month)
	log.Printf("📊 Strikes analyzed:     %s", helpers.FormatIndian(int64(report.TotalStrikes)))
	log.Printf("📊 Reached %.0f%% target:  %s (%.1f%%)",
		database.ReductionTargetPct, helpers.FormatIndian(int64(report.FoundCount)), report.SuccessRatePct)
	log.Printf("📊 No usable data:       %s", helpers.FormatIndian(int64(report.NoDataCount)))
	if report.FoundCount > 0 {
		log.Printf("📊 Days to target:       avg %.1f / min %d / max %d",
			report.AvgDaysToTarget, report.MinDaysToTarget, report.MaxDaysToTarget)
	}
	log.Printf("📊 Avg max reduction:    %.2f%%", report.AvgMaxReductionPct)

	if len(report.TopSymbols) > 0 {
		log.Println("🏆 Top symbols by success rate:")
		for _, sym := range report.TopSymbols {
			log.Printf("   %-12s %5.1f%% (%d/%d)", sym.Symbol, sym.SuccessRate, sym.FoundCount, sym.TotalStrikes)
		}
	}
	if len(report.BottomSymbols) > 0 {
		log.Println("🐌 Bottom symbols by success rate:")
		for _, sym := range report.BottomSymbols {
			log.Printf("   %-12s %5.1f%% (%d/%d)", sym.Symbol, sym.SuccessRate, sym.FoundCount, sym.TotalStrikes)
		}
	}
	if len(report.TopReductions) > 0 {
		log.Println("📉 Deepest first-crossing reductions:")
		for _, red := range report.TopReductions {
			log.Printf("   %-12s %8.2f %s  %6.2f%% on %s (%d days)",
				red.Symbol, red.StrikePrice, red.OptionType, red.ReductionPct,
				red.ReductionDay.Format("2006-01-02"), red.DaysToTarget)
		}
	}
	log.Println("📊 =========================================")
}

// Publish caches the report in Redis so dashboards can read the latest run
// without re-querying. A missing Redis connection is a no-op.
func (r *Reporter) Publish(ctx context.Context, report *types.ReductionReport) {
	if r.redis == nil {
		return
	}
	key := database.ReportCacheKeyPrefix + report.Month
	if err := r.redis.Set(ctx, key, report, database.ReportCacheTTL); err != nil {
		log.Printf("⚠️  Failed to cache report under %s: %v", key, err)
		return
	}
	log.Printf("🧠 Report cached under %s", key)
}

func (r *Reporter) leaderboardLimit() int {
	if r.cfg.LeaderboardLimit > 0 {
		return r.cfg.LeaderboardLimit
	}
	return database.LeaderboardLimit
}

func (r *Reporter) topReductionsLimit() int {
	if r.cfg.TopReductionsLimit > 0 {
		return r.cfg.TopReductionsLimit
	}
	return database.TopReductionsLimit
}

func headSymbols(rates []types.SymbolSuccessRate, limit int) []types.SymbolSuccessRate {
	if len(rates) > limit {
		rates = rates[:limit]
	}
	out := make([]types.SymbolSuccessRate, len(rates))
	copy(out, rates)
	return out
}
