package types

import "time"

// JoinedHistoryRow is one row of the bulk left-outer join between
// strike_analysis and fo_bhavcopy: a base strike paired with one subsequent
// trading day. TradeDate and ClosePrice are nil when the outer join matched
// nothing (base strike with no subsequent data in the window).
type JoinedHistoryRow struct {
	AnalysisID     int64
	Symbol         string
	StrikePrice    float64
	OptionType     string
	BaseTradeDate  time.Time
	BaseClosePrice float64

	TradeDate  *time.Time
	ClosePrice *float64
}

// OptionQuote is one traded option row for a symbol on a single day, the raw
// material of the strike selector.
type OptionQuote struct {
	StrikePrice     float64    `json:"strike_price"`
	OptionType      string     `json:"option_type"`
	ClosePrice      float64    `json:"close_price"`
	OpenInterest    float64    `json:"open_interest"`
	ContractsTraded int64      `json:"contracts_traded"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
}

// SymbolSuccessRate holds per-symbol reduction success statistics for the
// leaderboard sections of the report
type SymbolSuccessRate struct {
	Symbol       string  `json:"symbol"`
	TotalStrikes int     `json:"total_strikes"`
	FoundCount   int     `json:"found_count"`
	SuccessRate  float64 `json:"success_rate"` // percent
}

// TopReduction is one entry of the best-individual-reductions list
type TopReduction struct {
	Symbol       string    `json:"symbol"`
	StrikePrice  float64   `json:"strike_price"`
	OptionType   string    `json:"option_type"`
	ReductionPct float64   `json:"reduction_pct"`
	ReductionDay time.Time `json:"reduction_day"`
	DaysToTarget int       `json:"days_to_target"`
}

// ReductionReport summarizes a completed reduction-analysis run
type ReductionReport struct {
	Month       string    `json:"month"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalStrikes   int     `json:"total_strikes"`
	FoundCount     int     `json:"found_count"`
	SuccessRatePct float64 `json:"success_rate_pct"`

	// Strikes carried through with no usable reduction math (no subsequent
	// data, or non-positive base price)
	NoDataCount int `json:"no_data_count"`

	AvgDaysToTarget float64 `json:"avg_days_to_target"`
	MinDaysToTarget int     `json:"min_days_to_target"`
	MaxDaysToTarget int     `json:"max_days_to_target"`

	AvgMaxReductionPct float64 `json:"avg_max_reduction_pct"`

	TopSymbols    []SymbolSuccessRate `json:"top_symbols"`
	BottomSymbols []SymbolSuccessRate `json:"bottom_symbols"`
	TopReductions []TopReduction      `json:"top_reductions"`
}

// DeliveryRunSummary summarizes a delivery-anchored selection run
type DeliveryRunSummary struct {
	Month            string    `json:"month"`
	GeneratedAt      time.Time `json:"generated_at"`
	SymbolsProcessed int       `json:"symbols_processed"`
	SymbolsSkipped   int       `json:"symbols_skipped"`
	RowsWritten      int       `json:"rows_written"`
	ShapeMismatches  int       `json:"shape_mismatches"`
	TotalDeliveryQty int64     `json:"total_delivery_qty"`
}
