package valuation

import (
	"math"

	"AEXScanner/internal/model"
)

// Bundle is the normalized per-company fundamentals the method calculators
// consume. Optional fields are nil when no signal could be derived.
type Bundle struct {
	FreeCashFlow *float64
	Earnings     *float64
	BookValue    *float64
	Revenue      *float64
	GrowthRate   float64 // always populated, falls back to the default
	IsFinancial  bool
	Confidence   float64 // data quality hint, informational only
}

// Line item name variants, preferred naming first.
var (
	fcfRows    = []string{"Free Cash Flow"}
	incomeRows = []string{"Net Income", "Net Income Common Stockholders"}
	equityRows = []string{"Total Stockholder Equity", "Stockholders Equity", "Common Stock Equity"}
)

// Derived growth assumptions stay within -5%..+20%.
const (
	growthFloor = -0.05
	growthCap   = 0.20
)

// Extract derives a Bundle from a raw snapshot. A missing statement or line
// item just leaves that field unset; extraction itself never fails.
func Extract(f *model.Fundamentals, isFinancial bool, p Params) *Bundle {
	b := &Bundle{IsFinancial: isFinancial}

	// Most recent free cash flow from the cash flow statement.
	if v, ok := f.CashFlow.MostRecent(fcfRows...); ok {
		b.FreeCashFlow = &v
		b.Confidence = 0.7
	}

	// Banks often report negative or meaningless operating cash flow, so
	// for financials (or when FCF is absent/non-positive) read net income
	// from the income statement instead.
	if isFinancial || b.FreeCashFlow == nil || *b.FreeCashFlow <= 0 {
		if v, ok := f.IncomeStmt.MostRecent(incomeRows...); ok {
			b.Earnings = &v
			b.Confidence = 0.8
		}
	}

	// Summary-level fallbacks when the statements yielded nothing.
	if b.FreeCashFlow == nil && b.Earnings == nil {
		if f.FreeCashFlow != nil {
			v := *f.FreeCashFlow
			b.FreeCashFlow = &v
			b.Confidence = 0.6
		}
		if f.NetIncomeToCommon != nil {
			v := *f.NetIncomeToCommon
			b.Earnings = &v
			b.Confidence = 0.6
		}
	}

	// Book value: newest equity figure, trying row name variants in order.
	if v, ok := f.BalanceSheet.MostRecent(equityRows...); ok {
		b.BookValue = &v
	}

	if f.TotalRevenue != nil {
		v := *f.TotalRevenue
		b.Revenue = &v
	}

	// Growth rate: clamped revenue growth averaged with clamped earnings
	// CAGR when both exist, either alone otherwise, default as last resort.
	var growth *float64
	if f.RevenueGrowth != nil {
		g := clampGrowth(*f.RevenueGrowth)
		growth = &g
	}
	if cagr, ok := earningsCAGR(f.IncomeStmt); ok {
		c := clampGrowth(cagr)
		if growth != nil {
			avg := (*growth + c) / 2
			growth = &avg
		} else {
			growth = &c
		}
	}
	if growth != nil {
		b.GrowthRate = *growth
	} else {
		b.GrowthRate = p.DefaultGrowthRate
	}

	return b
}

func clampGrowth(g float64) float64 {
	return math.Min(math.Max(g, growthFloor), growthCap)
}

// earningsCAGR computes a compound annual growth rate from the income
// statement. Needs at least three reported periods with positive oldest and
// newest values.
func earningsCAGR(income model.Statement) (float64, bool) {
	series := income.Series(incomeRows...)
	if len(series) < 3 {
		return 0, false
	}
	newest := series[0]
	oldest := series[len(series)-1]
	if oldest <= 0 || newest <= 0 {
		return 0, false
	}
	years := float64(len(series) - 1)
	return math.Pow(newest/oldest, 1/years) - 1, true
}
