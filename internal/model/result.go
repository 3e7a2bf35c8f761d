package model

// Valuation method labels as they appear in reports and the run history.
const (
	MethodFCF      = "FCF-Based DCF"
	MethodEarnings = "Earnings-Based"
	MethodBook     = "Price-to-Book"
	MethodPE       = "P/E Multiple"
	MethodFailed   = "failed"
)

// Result is the outcome of valuing one company. It is constructed once per
// valuation and never mutated afterwards. FairValue is nil when valuation
// failed; Err then carries a human-readable reason.
type Result struct {
	Ticker          string
	Company         string
	FairValue       *float64
	CurrentPrice    float64
	DiscountPercent float64
	Method          string
	Err             string
}

// Valued reports whether the company received a fair value estimate.
func (r *Result) Valued() bool { return r.FairValue != nil }
