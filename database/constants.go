package database

import "time"

// Option type codes as used in NSE bhavcopy files
const (
	OptionTypeCall = "CE"
	OptionTypePut  = "PE"
)

// Strike position of a selected strike relative to the target price
const (
	StrikePositionAbove = "ABOVE"
	StrikePositionBelow = "BELOW"
	StrikePositionExact = "EXACT"
)

// Reduction scan thresholds
const (
	// A strike counts as reduced at >= this percentage, not strictly above it
	ReductionTargetPct = 50.0

	// Computed percentages beyond this magnitude are clamped (signed) before
	// insert; near-zero base prices can otherwise overflow the destination
	// numeric columns
	NumericCeiling = 1_000_000.0
)

// Strike selection shape
const (
	StrikesPerSide      = 3
	TargetStrikeCount   = 7
	TargetSelectionRows = 14 // TargetStrikeCount strikes x both option types
)

// Batch insert sizing
const (
	InsertBatchSize = 500
)

// Reporting limits
const (
	LeaderboardLimit   = 5
	TopReductionsLimit = 10

	// Symbols with fewer analyzed strikes than this are left off the
	// success-rate leaderboard
	MinStrikesForLeaderboard = 3
)

// Report cache
const (
	ReportCacheTTL       = 24 * time.Hour
	ReportCacheKeyPrefix = "reduction:report:"
)

// Checkpoint freshness: a delivery-driver checkpoint older than this is
// treated as stale and discarded on resume
const (
	CheckpointMaxAge = 24 * time.Hour
)
