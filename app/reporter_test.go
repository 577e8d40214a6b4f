package app

import (
	"math"
	"testing"

	"nse-strike-analyzer/config"
	"nse-strike-analyzer/database"
)

func outcome(symbol string, found bool, days int, reductionPct, maxPct float64) *database.MonthlyReductionResult {
	out := &database.MonthlyReductionResult{
		Symbol:           symbol,
		StrikePrice:      100,
		OptionType:       "CE",
		BaseTradeDate:    day("2025-02-03"),
		BaseClosePrice:   200,
		TotalTradingDays: 10,
	}
	out.MaxReductionPercentage = &maxPct
	if found {
		out.Reduction50Found = true
		out.DaysTo50Reduction = &days
		out.Reduction50Percentage = &reductionPct
		d := day("2025-02-03").AddDate(0, 0, days)
		out.Reduction50Date = &d
	}
	return out
}

func noDataOutcome(symbol string) *database.MonthlyReductionResult {
	return &database.MonthlyReductionResult{
		Symbol:         symbol,
		StrikePrice:    100,
		OptionType:     "PE",
		BaseTradeDate:  day("2025-02-03"),
		BaseClosePrice: 200,
	}
}

func TestBuildReportAggregates(t *testing.T) {
	reporter := NewReporter(nil, config.AnalysisConfig{
		Month:              "2025-02",
		LeaderboardLimit:   2,
		TopReductionsLimit: 3,
	})

	outcomes := []*database.MonthlyReductionResult{
		// WINNER: 3/3 found
		outcome("WINNER", true, 5, 60, 60),
		outcome("WINNER", true, 10, 55, 55),
		outcome("WINNER", true, 15, 52, 52),
		// MIXED: 1/3 found
		outcome("MIXED", true, 20, 70, 70),
		outcome("MIXED", false, 0, 0, 30),
		outcome("MIXED", false, 0, 0, 20),
		// LOSER: 0/3 found
		outcome("LOSER", false, 0, 0, 10),
		outcome("LOSER", false, 0, 0, 15),
		noDataOutcome("LOSER"),
	}

	report := reporter.BuildReport(outcomes)

	if report.TotalStrikes != 9 {
		t.Errorf("expected 9 strikes, got %d", report.TotalStrikes)
	}
	if report.FoundCount != 4 {
		t.Errorf("expected 4 found, got %d", report.FoundCount)
	}
	if math.Abs(report.SuccessRatePct-4.0/9.0*100) > 1e-9 {
		t.Errorf("unexpected success rate %v", report.SuccessRatePct)
	}
	if report.NoDataCount != 1 {
		t.Errorf("expected 1 no-data strike, got %d", report.NoDataCount)
	}

	if math.Abs(report.AvgDaysToTarget-12.5) > 1e-9 {
		t.Errorf("expected avg days 12.5, got %v", report.AvgDaysToTarget)
	}
	if report.MinDaysToTarget != 5 || report.MaxDaysToTarget != 20 {
		t.Errorf("expected days range 5..20, got %d..%d", report.MinDaysToTarget, report.MaxDaysToTarget)
	}

	// avg max reduction over the 8 strikes with data
	wantAvgMax := (60.0 + 55 + 52 + 70 + 30 + 20 + 10 + 15) / 8
	if math.Abs(report.AvgMaxReductionPct-wantAvgMax) > 1e-9 {
		t.Errorf("expected avg max reduction %v, got %v", wantAvgMax, report.AvgMaxReductionPct)
	}

	if len(report.TopSymbols) != 2 {
		t.Fatalf("expected leaderboard of 2, got %d", len(report.TopSymbols))
	}
	if report.TopSymbols[0].Symbol != "WINNER" {
		t.Errorf("expected WINNER on top, got %s", report.TopSymbols[0].Symbol)
	}
	if report.BottomSymbols[0].Symbol != "LOSER" {
		t.Errorf("expected LOSER on the bottom, got %s", report.BottomSymbols[0].Symbol)
	}

	if len(report.TopReductions) != 3 {
		t.Fatalf("expected top reductions capped at 3, got %d", len(report.TopReductions))
	}
	if report.TopReductions[0].Symbol != "MIXED" || report.TopReductions[0].ReductionPct != 70 {
		t.Errorf("expected the 70%% MIXED reduction first, got %+v", report.TopReductions[0])
	}
}

func TestBuildReportEmpty(t *testing.T) {
	reporter := NewReporter(nil, config.AnalysisConfig{Month: "2025-02"})

	report := reporter.BuildReport(nil)
	if report.TotalStrikes != 0 || report.FoundCount != 0 {
		t.Errorf("expected zeroed report, got %+v", report)
	}
	if report.SuccessRatePct != 0 {
		t.Errorf("expected 0 success rate, got %v", report.SuccessRatePct)
	}
}
