package app

import (
	"math"
	"testing"
	"time"

	"nse-strike-analyzer/config"
	"nse-strike-analyzer/database/types"
)

func testScanner() *ReductionScanner {
	// logic doesn't use db connections
	return NewReductionScanner(nil, nil, config.AnalysisConfig{ReductionTargetPct: 50.0})
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func joinedRow(id int64, symbol string, strike float64, baseDate string, basePrice float64, tradeDate string, close float64) types.JoinedHistoryRow {
	row := types.JoinedHistoryRow{
		AnalysisID:     id,
		Symbol:         symbol,
		StrikePrice:    strike,
		OptionType:     "CE",
		BaseTradeDate:  day(baseDate),
		BaseClosePrice: basePrice,
	}
	if tradeDate != "" {
		d := day(tradeDate)
		row.TradeDate = &d
		row.ClosePrice = &close
	}
	return row
}

func TestComputeOutcomesOnePerStrike(t *testing.T) {
	scanner := testScanner()

	joined := []types.JoinedHistoryRow{
		joinedRow(1, "NIFTY", 22000, "2025-02-03", 100, "2025-02-04", 90),
		joinedRow(1, "NIFTY", 22000, "2025-02-03", 100, "2025-02-05", 80),
		joinedRow(2, "BANKNIFTY", 48000, "2025-02-03", 200, "2025-02-04", 150),
		// base strike with zero subsequent rows: single all-NULL-right row
		// from the left outer join
		joinedRow(3, "RELIANCE", 1300, "2025-02-03", 50, "", 0),
	}

	outcomes := scanner.ComputeOutcomes(joined)
	if len(outcomes) != 3 {
		t.Fatalf("expected exactly 3 outcomes, got %d", len(outcomes))
	}

	seen := make(map[int64]bool)
	for _, out := range outcomes {
		if seen[out.AnalysisID] {
			t.Errorf("duplicate outcome for analysis id %d", out.AnalysisID)
		}
		seen[out.AnalysisID] = true
	}
	for _, id := range []int64{1, 2, 3} {
		if !seen[id] {
			t.Errorf("missing outcome for analysis id %d", id)
		}
	}
}

func TestFirstCrossingWins(t *testing.T) {
	scanner := testScanner()

	// base 100; closes 90, 70, 49, 55: the 49 day is the first crossing
	// even though the 55 day comes later
	joined := []types.JoinedHistoryRow{
		joinedRow(1, "TATASTEEL", 140, "2025-02-03", 100, "2025-02-04", 90),
		joinedRow(1, "TATASTEEL", 140, "2025-02-03", 100, "2025-02-05", 70),
		joinedRow(1, "TATASTEEL", 140, "2025-02-03", 100, "2025-02-06", 49),
		joinedRow(1, "TATASTEEL", 140, "2025-02-03", 100, "2025-02-07", 55),
	}

	out := scanner.ComputeOutcomes(joined)[0]
	if !out.Reduction50Found {
		t.Fatal("expected reduction to be found")
	}
	if *out.Reduction50Price != 49 {
		t.Errorf("expected crossing price 49, got %v", *out.Reduction50Price)
	}
	if math.Abs(*out.Reduction50Percentage-51.0) > 1e-9 {
		t.Errorf("expected crossing percentage 51.0, got %v", *out.Reduction50Percentage)
	}
	if !out.Reduction50Date.Equal(day("2025-02-06")) {
		t.Errorf("expected crossing date 2025-02-06, got %v", out.Reduction50Date)
	}
	if *out.DaysTo50Reduction != 3 {
		t.Errorf("expected 3 calendar days to crossing, got %d", *out.DaysTo50Reduction)
	}
}

func TestExactThresholdCounts(t *testing.T) {
	scanner := testScanner()

	// exactly 50.0% counts as found (>=, not >)
	joined := []types.JoinedHistoryRow{
		joinedRow(1, "INFY", 1800, "2025-02-03", 100, "2025-02-04", 50),
	}

	out := scanner.ComputeOutcomes(joined)[0]
	if !out.Reduction50Found {
		t.Fatal("expected exact 50.0%% reduction to count as found")
	}
	if math.Abs(*out.Reduction50Percentage-50.0) > 1e-9 {
		t.Errorf("expected 50.0, got %v", *out.Reduction50Percentage)
	}
}

func TestChronologicalOrderEnforced(t *testing.T) {
	scanner := testScanner()

	// rows arrive out of order; the crossing must still be the earliest
	// qualifying date
	joined := []types.JoinedHistoryRow{
		joinedRow(1, "SBIN", 760, "2025-02-03", 100, "2025-02-20", 40),
		joinedRow(1, "SBIN", 760, "2025-02-03", 100, "2025-02-10", 45),
		joinedRow(1, "SBIN", 760, "2025-02-03", 100, "2025-02-05", 60),
	}

	out := scanner.ComputeOutcomes(joined)[0]
	if !out.Reduction50Date.Equal(day("2025-02-10")) {
		t.Errorf("expected first crossing on 2025-02-10, got %v", out.Reduction50Date)
	}
	if *out.FinalMonthPrice != 40 {
		t.Errorf("expected month-end price from the 2025-02-20 row, got %v", *out.FinalMonthPrice)
	}
}

func TestNoDataOutcome(t *testing.T) {
	scanner := testScanner()

	joined := []types.JoinedHistoryRow{
		joinedRow(7, "WIPRO", 300, "2025-02-03", 25, "", 0),
	}

	for run := 0; run < 2; run++ {
		out := scanner.ComputeOutcomes(joined)[0]
		if out.Reduction50Found {
			t.Fatal("expected reduction_50_found=false for no-data strike")
		}
		if out.TotalTradingDays != 0 {
			t.Errorf("expected 0 trading days, got %d", out.TotalTradingDays)
		}
		if out.Reduction50Percentage != nil || out.MaxReductionPercentage != nil ||
			out.AvgDailyReduction != nil || out.FinalMonthPrice != nil {
			t.Error("expected all derived fields to be nil for no-data strike")
		}
	}
}

func TestNonPositiveBasePrice(t *testing.T) {
	scanner := testScanner()

	// base price 0 cannot anchor a percentage; the strike still gets its
	// outcome row, with the observation count intact
	joined := []types.JoinedHistoryRow{
		joinedRow(9, "IDEA", 10, "2025-02-03", 0, "2025-02-04", 5),
		joinedRow(9, "IDEA", 10, "2025-02-03", 0, "2025-02-05", 4),
	}

	outcomes := scanner.ComputeOutcomes(joined)
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	out := outcomes[0]
	if out.Reduction50Found || out.MaxReductionPercentage != nil {
		t.Error("expected no derived statistics for non-positive base price")
	}
	if out.TotalTradingDays != 2 {
		t.Errorf("expected 2 trading days, got %d", out.TotalTradingDays)
	}
}

func TestNumericSafety(t *testing.T) {
	scanner := testScanner()

	// base 0.0001 against close 50 produces a reduction in the tens of
	// millions of percent (negative: a massive price increase); it must be
	// clamped, not passed through
	joined := []types.JoinedHistoryRow{
		joinedRow(4, "PENNY", 5, "2025-02-03", 0.0001, "2025-02-04", 50),
	}

	out := scanner.ComputeOutcomes(joined)[0]
	if out.BestSingleDayGain == nil {
		t.Fatal("expected clamped best_single_day_gain, got nil")
	}
	if *out.BestSingleDayGain != -1_000_000.0 {
		t.Errorf("expected clamp to -1e6, got %v", *out.BestSingleDayGain)
	}
	if *out.AvgDailyReduction != -1_000_000.0 {
		t.Errorf("expected avg clamped to -1e6, got %v", *out.AvgDailyReduction)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    float64
		wantNil bool
	}{
		{"NaN", math.NaN(), 0, true},
		{"PosInf", math.Inf(1), 0, true},
		{"NegInf", math.Inf(-1), 0, true},
		{"InRange", 42.5, 42.5, false},
		{"ClampHigh", 5e7, 1_000_000, false},
		{"ClampLow", -5e7, -1_000_000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize(tt.in)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected value, got nil")
			}
			if *got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, *got)
			}
		})
	}
}

func TestEndToEndScenario(t *testing.T) {
	scanner := testScanner()

	joined := []types.JoinedHistoryRow{
		joinedRow(1, "TEST", 100, "2025-02-03", 200, "2025-02-04", 190),
		joinedRow(1, "TEST", 100, "2025-02-03", 200, "2025-02-10", 120),
		joinedRow(1, "TEST", 100, "2025-02-03", 200, "2025-02-17", 95),
		joinedRow(1, "TEST", 100, "2025-02-03", 200, "2025-02-24", 99),
	}

	out := scanner.ComputeOutcomes(joined)[0]

	if !out.Reduction50Found {
		t.Fatal("expected reduction to be found")
	}
	if !out.Reduction50Date.Equal(day("2025-02-17")) {
		t.Errorf("expected crossing on 2025-02-17, got %v", out.Reduction50Date)
	}
	if *out.Reduction50Price != 95 {
		t.Errorf("expected crossing price 95, got %v", *out.Reduction50Price)
	}
	if math.Abs(*out.Reduction50Percentage-52.5) > 1e-9 {
		t.Errorf("expected 52.5%%, got %v", *out.Reduction50Percentage)
	}
	if *out.DaysTo50Reduction != 14 {
		t.Errorf("expected 14 days, got %d", *out.DaysTo50Reduction)
	}
	if math.Abs(*out.MaxReductionPercentage-52.5) > 1e-9 {
		t.Errorf("expected max reduction 52.5%%, got %v", *out.MaxReductionPercentage)
	}
	if !out.MaxReductionDate.Equal(day("2025-02-17")) {
		t.Errorf("expected max reduction on 2025-02-17, got %v", out.MaxReductionDate)
	}
	if *out.FinalMonthPrice != 99 {
		t.Errorf("expected final price 99, got %v", *out.FinalMonthPrice)
	}
	if math.Abs(*out.MonthEndReduction-50.5) > 1e-9 {
		t.Errorf("expected month-end reduction 50.5%%, got %v", *out.MonthEndReduction)
	}
	if out.TotalTradingDays != 4 {
		t.Errorf("expected 4 trading days, got %d", out.TotalTradingDays)
	}
}

func TestMonthWindow(t *testing.T) {
	start, end, err := MonthWindow("2025-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(day("2025-02-01")) {
		t.Errorf("expected window start 2025-02-01, got %v", start)
	}
	if !end.Equal(day("2025-02-28")) {
		t.Errorf("expected window end 2025-02-28, got %v", end)
	}

	if _, _, err := MonthWindow("February 2025"); err == nil {
		t.Error("expected error for malformed month")
	}
}
