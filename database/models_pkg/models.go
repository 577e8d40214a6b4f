package models

import "time"

// StrikeAnalysis is one base strike seeded by the upstream strike-analysis
// loader. Each row anchors exactly one reduction-analysis unit: subsequent
// same-strike trading days are compared against ClosePrice.
//
// Key Fields:
//   - Symbol/StrikePrice/OptionType: strike identity within the F&O universe
//   - TradeDate: the base trading day; only strictly later days are scanned
//   - ClosePrice: the base price, the denominator of every reduction
//     percentage (rows with a non-positive value are carried through the
//     scan but produce no derived statistics)
//
// The table is externally loaded and strictly read-only to this system.
type StrikeAnalysis struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol      string    `gorm:"size:30;index;not null" json:"symbol"`
	StrikePrice float64   `gorm:"type:decimal(12,2);not null" json:"strike_price"`
	OptionType  string    `gorm:"size:2;not null" json:"option_type"` // CE, PE
	TradeDate   time.Time `gorm:"type:date;not null" json:"trade_date"`
	ClosePrice  float64   `gorm:"type:decimal(12,2);not null" json:"close_price"`
}

// TableName specifies the table name for StrikeAnalysis
func (StrikeAnalysis) TableName() string {
	return "strike_analysis"
}

// DeliveryDay is a symbol's single highest-delivery-volume trading day for
// the analysis month, sourced externally. Read-only.
type DeliveryDay struct {
	Symbol        string    `gorm:"size:30;primaryKey" json:"symbol"`
	AnalysisMonth string    `gorm:"size:7;primaryKey" json:"analysis_month"` // YYYY-MM
	PeakDate      time.Time `gorm:"type:date;not null" json:"peak_date"`
	DeliveryQty   int64     `gorm:"not null" json:"delivery_qty"`
	ClosePrice    float64   `gorm:"type:decimal(12,2);not null" json:"close_price"`
}

// TableName specifies the table name for DeliveryDay
func (DeliveryDay) TableName() string {
	return "delivery_analysis"
}

// MonthlyReductionResult is the outcome of scanning one base strike's
// subsequent price history within the analysis month.
//
// Exactly one row exists per base strike, even when the strike had zero
// subsequent trading days (all derived fields NULL, Reduction50Found false,
// TotalTradingDays 0). The table is fully replaced on every run.
//
// Key Fields:
//   - Reduction50*: first day the reduction reached the 50% target; the
//     first qualifying day wins, not the day of deepest reduction
//   - DaysTo50Reduction: calendar days between base date and that day
//   - MaxReduction*: the deepest reduction seen in the window
//   - VolatilityScore: sample standard deviation of the daily reduction
//     percentages
//   - BestSingleDayGain: minimum reduction percentage (most negative =
//     largest price increase); WorstSingleDayLoss: maximum
//   - FinalMonthPrice/MonthEndReduction: chronologically last observed day
type MonthlyReductionResult struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AnalysisID     int64     `gorm:"index;not null" json:"analysis_id"`
	Symbol         string    `gorm:"size:30;index;not null" json:"symbol"`
	StrikePrice    float64   `gorm:"type:decimal(12,2);not null" json:"strike_price"`
	OptionType     string    `gorm:"size:2;not null" json:"option_type"` // CE, PE
	BaseTradeDate  time.Time `gorm:"type:date;not null" json:"base_trade_date"`
	BaseClosePrice float64   `gorm:"type:decimal(12,2);not null" json:"base_close_price"`

	Reduction50Found      bool       `gorm:"not null" json:"reduction_50_found"`
	Reduction50Date       *time.Time `gorm:"type:date" json:"reduction_50_date,omitempty"`
	Reduction50Price      *float64   `gorm:"type:decimal(12,2)" json:"reduction_50_price,omitempty"`
	Reduction50Percentage *float64   `gorm:"type:decimal(12,4)" json:"reduction_50_percentage,omitempty"`
	DaysTo50Reduction     *int       `json:"days_to_50_reduction,omitempty"`

	MaxReductionPercentage *float64   `gorm:"type:decimal(12,4)" json:"max_reduction_percentage,omitempty"`
	MaxReductionDate       *time.Time `gorm:"type:date" json:"max_reduction_date,omitempty"`
	MaxReductionPrice      *float64   `gorm:"type:decimal(12,2)" json:"max_reduction_price,omitempty"`

	TotalTradingDays int `gorm:"not null" json:"total_trading_days_in_window"`

	AvgDailyReduction  *float64 `gorm:"type:decimal(12,4)" json:"avg_daily_reduction,omitempty"`
	VolatilityScore    *float64 `gorm:"type:decimal(12,4)" json:"volatility_score,omitempty"`
	BestSingleDayGain  *float64 `gorm:"type:decimal(12,4)" json:"best_single_day_gain,omitempty"`
	WorstSingleDayLoss *float64 `gorm:"type:decimal(12,4)" json:"worst_single_day_loss,omitempty"`

	FinalMonthPrice   *float64 `gorm:"type:decimal(12,2)" json:"final_month_price,omitempty"`
	MonthEndReduction *float64 `gorm:"type:decimal(12,4)" json:"month_end_reduction,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for MonthlyReductionResult
func (MonthlyReductionResult) TableName() string {
	return "monthly_reduction_results"
}

// StrikeSelectionResult is one (strike, option type) row chosen by the
// enhanced strike selector for a symbol's highest-delivery day, with the
// delivery-day context attached. The table is fully replaced on every run.
type StrikeSelectionResult struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol         string    `gorm:"size:30;index;not null" json:"symbol"`
	TargetPrice    float64   `gorm:"type:decimal(12,2);not null" json:"target_price"`
	StrikePrice    float64   `gorm:"type:decimal(12,2);not null" json:"strike_price"`
	StrikePosition string    `gorm:"size:5;not null" json:"strike_position"` // ABOVE, BELOW, EXACT
	OptionType     string    `gorm:"size:2;not null" json:"option_type"`     // CE, PE
	TradeDate      time.Time `gorm:"type:date;index;not null" json:"trade_date"`

	ClosePrice      float64    `gorm:"type:decimal(12,2);not null" json:"close_price"`
	OpenInterest    float64    `gorm:"type:decimal(18,2)" json:"open_interest"`
	ContractsTraded int64      `json:"contracts_traded"`
	ExpiryDate      *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`

	// Delivery-day context
	DeliveryDate       time.Time `gorm:"type:date;not null" json:"delivery_date"`
	DeliveryQty        int64     `gorm:"not null" json:"delivery_qty"`
	DeliveryClosePrice float64   `gorm:"type:decimal(12,2);not null" json:"delivery_close_price"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for StrikeSelectionResult
func (StrikeSelectionResult) TableName() string {
	return "delivery_strike_selections"
}
