// Package history reads the externally loaded F&O price-history tables:
// the fo_bhavcopy daily records and the strike_analysis base strikes.
// Everything here is read-only.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"nse-strike-analyzer/database"
	models "nse-strike-analyzer/database/models_pkg"
	"nse-strike-analyzer/database/types"

	"gorm.io/gorm"
)

// Repository handles read access to the price-history store.
//
// Small lookups go through GORM; the month-wide joined read streams off the
// raw connection so the result set is scanned exactly once.
type Repository struct {
	db  *gorm.DB
	raw *database.Conn
}

// NewRepository creates a new history repository
func NewRepository(db *database.Database, raw *database.Conn) *Repository {
	return &Repository{db: db.DB(), raw: raw}
}

// joinedHistoryQuery pairs every base strike with each of its subsequent
// trading days inside the window. The left outer join keeps base strikes
// with no subsequent data as a single all-NULL-right row, so downstream
// grouping still emits exactly one outcome for them. This single query
// replaces one round trip per base strike.
const joinedHistoryQuery = `
	SELECT
		sa.id,
		sa.symbol,
		sa.strike_price,
		sa.option_type,
		sa.trade_date,
		sa.close_price,
		fb.trade_date,
		fb.close_price
	FROM strike_analysis sa
	LEFT JOIN fo_bhavcopy fb
		ON fb.symbol = sa.symbol
		AND fb.strike_price = sa.strike_price
		AND fb.option_type = sa.option_type
		AND fb.trade_date > sa.trade_date
		AND fb.trade_date >= $1
		AND fb.trade_date <= $2
		AND fb.close_price IS NOT NULL
	ORDER BY sa.id, fb.trade_date
`

// FetchJoinedHistory performs the single bulk join between the full base
// strike set and the price history, restricted to [windowStart, windowEnd].
func (r *Repository) FetchJoinedHistory(windowStart, windowEnd time.Time) ([]types.JoinedHistoryRow, error) {
	rows, err := r.raw.SQL().Query(joinedHistoryQuery, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("FetchJoinedHistory: %w", err)
	}
	defer rows.Close()

	var joined []types.JoinedHistoryRow
	for rows.Next() {
		var row types.JoinedHistoryRow
		var tradeDate sql.NullTime
		var closePrice sql.NullFloat64

		if err := rows.Scan(
			&row.AnalysisID,
			&row.Symbol,
			&row.StrikePrice,
			&row.OptionType,
			&row.BaseTradeDate,
			&row.BaseClosePrice,
			&tradeDate,
			&closePrice,
		); err != nil {
			return nil, fmt.Errorf("FetchJoinedHistory scan: %w", err)
		}

		if tradeDate.Valid {
			d := tradeDate.Time
			row.TradeDate = &d
		}
		if closePrice.Valid {
			p := closePrice.Float64
			row.ClosePrice = &p
		}

		joined = append(joined, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FetchJoinedHistory rows: %w", err)
	}

	return joined, nil
}

// CountBaseStrikes returns the size of the base strike universe
func (r *Repository) CountBaseStrikes() (int64, error) {
	var count int64
	if err := r.db.Model(&models.StrikeAnalysis{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("CountBaseStrikes: %w", err)
	}
	return count, nil
}

// GetOptionChain retrieves the option universe for a symbol on one trading
// day: every traded (strike, option type) with a positive close.
func (r *Repository) GetOptionChain(symbol string, tradeDate time.Time) ([]types.OptionQuote, error) {
	var quotes []types.OptionQuote
	err := r.db.Table("fo_bhavcopy").
		Select("strike_price, option_type, close_price, open_interest, contracts_traded, expiry_date").
		Where("symbol = ? AND trade_date = ?", symbol, tradeDate).
		Where("close_price > 0").
		Where("option_type IN ?", []string{database.OptionTypeCall, database.OptionTypePut}).
		Order("strike_price ASC, option_type ASC").
		Scan(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("GetOptionChain: %w", err)
	}
	return quotes, nil
}

// FindTradingDateOnOrAfter resolves the nearest F&O trading date for a
// symbol on or after the given day. Returns nil (not an error) when the
// symbol has no data from that day onward.
func (r *Repository) FindTradingDateOnOrAfter(symbol string, day time.Time) (*time.Time, error) {
	var resolved sql.NullTime
	err := r.db.Table("fo_bhavcopy").
		Select("MIN(trade_date)").
		Where("symbol = ? AND trade_date >= ?", symbol, day).
		Scan(&resolved).Error
	if err != nil {
		return nil, fmt.Errorf("FindTradingDateOnOrAfter: %w", err)
	}
	if !resolved.Valid {
		return nil, nil
	}
	d := resolved.Time
	return &d, nil
}
