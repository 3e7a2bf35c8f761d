package valuation

import (
	"errors"
	"fmt"
	"math"

	"AEXScanner/internal/model"
)

// Method calculators return sentinel errors so the selector can tell
// missing inputs apart from degenerate model parameters.
var (
	ErrMissingInput   = errors.New("required input missing or non-positive")
	ErrDegenerateRate = errors.New("discount rate must exceed terminal growth")
)

// fcfBasedValue runs the standard DCF for operating companies: project free
// cash flow over the horizon, capitalize a growing-perpetuity terminal
// value, discount everything, bridge net cash, divide by shares.
func fcfBasedValue(f *model.Fundamentals, b *Bundle, rate float64, p Params) (float64, error) {
	if b.FreeCashFlow == nil || *b.FreeCashFlow <= 0 {
		return 0, fmt.Errorf("free cash flow: %w", ErrMissingInput)
	}
	if f.SharesOutstanding == nil || *f.SharesOutstanding <= 0 {
		return 0, fmt.Errorf("shares outstanding: %w", ErrMissingInput)
	}
	terminalGrowth := p.DefaultTerminalGrowth
	if rate <= terminalGrowth {
		return 0, ErrDegenerateRate
	}

	fcf := *b.FreeCashFlow
	var pv, projected float64
	for year := 1; year <= p.GrowthYears; year++ {
		projected = fcf * math.Pow(1+b.GrowthRate, float64(year))
		pv += projected / math.Pow(1+rate, float64(year))
	}
	terminal := projected * (1 + terminalGrowth) / (rate - terminalGrowth)
	enterpriseValue := pv + terminal/math.Pow(1+rate, float64(p.GrowthYears))

	// Net cash bridge from enterprise to equity value. Both figures must be
	// present; otherwise assume zero rather than a half-bridge.
	netCash := 0.0
	if f.TotalCash != nil && f.TotalDebt != nil {
		netCash = *f.TotalCash - *f.TotalDebt
	}

	return (enterpriseValue + netCash) / *f.SharesOutstanding, nil
}

// earningsBasedValue values financials (and companies without usable FCF)
// by projecting net income and exiting at a conservative terminal P/E.
// Earnings are already an equity-level quantity, so there is no net cash
// bridge.
func earningsBasedValue(f *model.Fundamentals, b *Bundle, rate float64, p Params) (float64, error) {
	if b.Earnings == nil || *b.Earnings <= 0 {
		return 0, fmt.Errorf("earnings: %w", ErrMissingInput)
	}
	if f.SharesOutstanding == nil || *f.SharesOutstanding <= 0 {
		return 0, fmt.Errorf("shares outstanding: %w", ErrMissingInput)
	}

	// Earnings are noisier than cash flow; discount them a point harder.
	rate += 0.01

	terminalPE := 12.0
	if b.IsFinancial {
		terminalPE = 10.0
	}

	earnings := *b.Earnings
	var pv, projected float64
	for year := 1; year <= p.GrowthYears; year++ {
		projected = earnings * math.Pow(1+b.GrowthRate, float64(year))
		pv += projected / math.Pow(1+rate, float64(year))
	}
	equityValue := pv + projected*terminalPE/math.Pow(1+rate, float64(p.GrowthYears))

	return equityValue / *f.SharesOutstanding, nil
}

// priceToBookValue values a company off its book equity, scaling the
// multiple by return on equity.
func priceToBookValue(f *model.Fundamentals, b *Bundle) (float64, error) {
	if b.BookValue == nil || *b.BookValue <= 0 {
		return 0, fmt.Errorf("book value: %w", ErrMissingInput)
	}
	if f.SharesOutstanding == nil || *f.SharesOutstanding <= 0 {
		return 0, fmt.Errorf("shares outstanding: %w", ErrMissingInput)
	}

	multiple := 1.0
	if f.ReturnOnEquity != nil {
		roe := *f.ReturnOnEquity
		switch {
		case roe > 0.20:
			multiple = 2.0
		case roe > 0.15:
			multiple = 1.7
		case roe > 0.10:
			multiple = 1.4
		case roe > 0.05:
			multiple = 1.0
		default:
			multiple = 0.8
		}
	}

	return (*b.BookValue / *f.SharesOutstanding) * multiple, nil
}

// fallbackPE is the conservative multiple applied when every primary method
// has failed and only trailing EPS remains.
const fallbackPE = 15.0

// peMultipleValue is the last-resort valuation: trailing EPS at a fixed
// conservative multiple.
func peMultipleValue(f *model.Fundamentals) (float64, error) {
	if f.TrailingEPS == nil || *f.TrailingEPS <= 0 {
		return 0, fmt.Errorf("trailing EPS: %w", ErrMissingInput)
	}
	return *f.TrailingEPS * fallbackPE, nil
}
