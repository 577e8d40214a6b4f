package app

import (
	"log"
	"math"
	"sort"
	"time"

	"nse-strike-analyzer/config"
	"nse-strike-analyzer/database"
	"nse-strike-analyzer/database/history"
	"nse-strike-analyzer/database/types"
)

// StrikeSelector picks a fixed-shape sample of strikes around a target
// price: up to 3 nearest above, 3 nearest below, plus the single nearest
// overall, deduplicated: 7 distinct strikes, expanded to both option types
// for up to 14 rows.
type StrikeSelector struct {
	historyRepo *history.Repository
	cfg         config.AnalysisConfig
}

// SelectedStrike is one chosen strike price with its position relative to
// the target
type SelectedStrike struct {
	Price    float64
	Position string // ABOVE, BELOW, EXACT
}

// NewStrikeSelector creates a new strike selector
func NewStrikeSelector(historyRepo *history.Repository, cfg config.AnalysisConfig) *StrikeSelector {
	return &StrikeSelector{historyRepo: historyRepo, cfg: cfg}
}

// SelectStrikes fetches the symbol's option universe on the given trading
// day and assembles the sample around targetPrice. Thin chains never error:
// the selector logs the shape mismatch and returns what it could assemble.
func (s *StrikeSelector) SelectStrikes(symbol string, tradeDate time.Time, targetPrice float64) ([]SelectedStrike, []types.OptionQuote, error) {
	if targetPrice <= 0 {
		return nil, nil, database.NewValidationErrorWithValue("target_price", "must be positive", targetPrice)
	}

	quotes, err := s.historyRepo.GetOptionChain(symbol, tradeDate)
	if err != nil {
		return nil, nil, err
	}

	selected := s.selectFromChain(quotes, targetPrice)

	rows := 0
	for _, sel := range selected {
		for _, q := range quotes {
			if q.StrikePrice == sel.Price {
				rows++
			}
		}
	}
	if rows != database.TargetSelectionRows {
		log.Printf("⚠️  %s on %s: selected %d strikes / %d rows (target %d strikes / %d rows)",
			symbol, tradeDate.Format("2006-01-02"), len(selected), rows,
			s.targetStrikeCount(), database.TargetSelectionRows)
	}

	return selected, quotes, nil
}

// selectFromChain implements the selection policy over an already-fetched
// chain. Distance ties resolve to the lower strike, so the output is stable
// across runs.
func (s *StrikeSelector) selectFromChain(quotes []types.OptionQuote, targetPrice float64) []SelectedStrike {
	perSide := s.cfg.StrikesPerSide
	if perSide <= 0 {
		perSide = database.StrikesPerSide
	}

	// Distinct strike universe
	seen := make(map[float64]bool)
	var strikes []float64
	for _, q := range quotes {
		if !seen[q.StrikePrice] {
			seen[q.StrikePrice] = true
			strikes = append(strikes, q.StrikePrice)
		}
	}
	if len(strikes) == 0 {
		return nil
	}

	var above, below []float64
	for _, strike := range strikes {
		switch {
		case strike > targetPrice:
			above = append(above, strike)
		case strike < targetPrice:
			below = append(below, strike)
		}
	}

	// Nearest-above first, nearest-below first
	sort.Float64s(above)
	sort.Sort(sort.Reverse(sort.Float64Slice(below)))

	chosen := make(map[float64]bool)
	var result []SelectedStrike

	for i := 0; i < len(above) && i < perSide; i++ {
		chosen[above[i]] = true
		result = append(result, SelectedStrike{Price: above[i], Position: database.StrikePositionAbove})
	}
	for i := 0; i < len(below) && i < perSide; i++ {
		chosen[below[i]] = true
		result = append(result, SelectedStrike{Price: below[i], Position: database.StrikePositionBelow})
	}

	// Nearest overall; if it is already in the set, walk the distance order
	// for the next unchosen strike so the sample still reaches full size
	// when the universe allows
	byDistance := make([]float64, len(strikes))
	copy(byDistance, strikes)
	sort.Slice(byDistance, func(i, j int) bool {
		di := math.Abs(byDistance[i] - targetPrice)
		dj := math.Abs(byDistance[j] - targetPrice)
		if di == dj {
			return byDistance[i] < byDistance[j] // lower strike wins ties
		}
		return di < dj
	})
	for _, strike := range byDistance {
		if !chosen[strike] {
			chosen[strike] = true
			result = append(result, SelectedStrike{Price: strike, Position: position(strike, targetPrice)})
			break
		}
	}

	return result
}

func (s *StrikeSelector) targetStrikeCount() int {
	if s.cfg.TargetStrikeCount > 0 {
		return s.cfg.TargetStrikeCount
	}
	return database.TargetStrikeCount
}

func position(strike, target float64) string {
	switch {
	case strike > target:
		return database.StrikePositionAbove
	case strike < target:
		return database.StrikePositionBelow
	default:
		return database.StrikePositionExact
	}
}
