package model

import "time"

// Statement is a financial statement table: line item name mapped to a
// chronological series of values, most recent first. Nil entries mark
// periods the source reported no value for.
type Statement map[string][]*float64

// MostRecent returns the newest non-nil value for the first of the given
// line item names that holds any data.
func (s Statement) MostRecent(names ...string) (float64, bool) {
	for _, name := range names {
		for _, v := range s[name] {
			if v != nil {
				return *v, true
			}
		}
	}
	return 0, false
}

// Series returns the non-nil values of the first listed line item that has
// any, preserving most-recent-first order.
func (s Statement) Series(names ...string) []float64 {
	for _, name := range names {
		var out []float64
		for _, v := range s[name] {
			if v != nil {
				out = append(out, *v)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// Fundamentals is a per-company snapshot from the market data source.
// Optional fields are pointers: nil means the source supplied no value,
// which is distinct from zero.
type Fundamentals struct {
	Symbol    string
	ShortName string

	CurrentPrice      *float64
	SharesOutstanding *float64
	Sector            string
	Industry          string
	Beta              *float64
	TotalCash         *float64
	TotalDebt         *float64
	TrailingEPS       *float64
	RevenueGrowth     *float64
	ReturnOnEquity    *float64
	TotalRevenue      *float64
	FreeCashFlow      *float64 // summary-level figure
	NetIncomeToCommon *float64 // summary-level figure
	TargetMeanPrice   *float64 // analyst mean price target

	CashFlow     Statement
	IncomeStmt   Statement
	BalanceSheet Statement

	FetchedAt time.Time
}
