package valuation

import (
	"log"

	"AEXScanner/internal/model"
)

// Engine runs the full per-company valuation: classify, extract, estimate
// the discount rate, pick one method, assemble the bounded result.
type Engine struct {
	Classifier *Classifier
	Params     Params
}

// NewEngine creates an Engine with the default classifier configuration.
func NewEngine(p Params) *Engine {
	return &Engine{Classifier: NewClassifier(), Params: p}
}

// Bounds on the assembled discount percentage. Extreme model output is
// capped relative to the current price so outliers cannot distort ranking.
const (
	maxPremiumPercent  = 300.0
	minDiscountPercent = -80.0
)

// Valuate produces a Result for one company. Failures are recorded on the
// Result rather than returned as an error: a bad symbol must never abort a
// batch run.
func (e *Engine) Valuate(f *model.Fundamentals) *model.Result {
	res := &model.Result{Ticker: f.Symbol, Company: f.ShortName}
	if res.Company == "" {
		res.Company = f.Symbol
	}

	// Price and share count are required no matter which method applies.
	if f.CurrentPrice == nil || *f.CurrentPrice <= 0 ||
		f.SharesOutstanding == nil || *f.SharesOutstanding <= 0 {
		log.Printf("[ERROR] %s: missing current price or shares outstanding", f.Symbol)
		res.Method = model.MethodFailed
		res.Err = "Missing price or shares outstanding data"
		return res
	}
	res.CurrentPrice = *f.CurrentPrice

	isFinancial := e.Classifier.IsFinancial(f.Sector, f.Industry, f.Symbol)
	bundle := Extract(f, isFinancial, e.Params)
	rate := EstimateDiscountRate(f.Beta, isFinancial, e.Params)

	var fair float64
	var err error = ErrMissingInput
	method := model.MethodFailed

	// Exclusive dispatch: financials and companies without positive FCF go
	// through earnings then book value; everyone else gets the FCF model.
	// The branches deliberately do not cross over.
	if isFinancial || bundle.FreeCashFlow == nil || *bundle.FreeCashFlow <= 0 {
		if bundle.Earnings != nil && *bundle.Earnings > 0 {
			fair, err = earningsBasedValue(f, bundle, rate, e.Params)
			method = model.MethodEarnings
		} else if bundle.BookValue != nil && *bundle.BookValue > 0 {
			fair, err = priceToBookValue(f, bundle)
			method = model.MethodBook
		}
	} else {
		fair, err = fcfBasedValue(f, bundle, rate, e.Params)
		method = model.MethodFCF
	}

	// Last resort: trailing earnings at a conservative multiple.
	if err != nil {
		if v, fbErr := peMultipleValue(f); fbErr == nil {
			fair, err = v, nil
			method = model.MethodPE
		}
	}

	if err != nil {
		log.Printf("[WARN] %s: no valuation method succeeded: %v", f.Symbol, err)
		res.Method = model.MethodFailed
		res.Err = "Insufficient data for valuation"
		return res
	}

	fair, discount := clampToPrice(f.Symbol, fair, res.CurrentPrice)
	res.FairValue = &fair
	res.DiscountPercent = discount
	res.Method = method
	return res
}

// clampToPrice bounds the discount percentage to [-80, +300], recomputing
// the fair value at the cap when the raw model output exceeds it.
func clampToPrice(symbol string, fair, price float64) (float64, float64) {
	discount := (fair/price - 1) * 100
	switch {
	case discount > maxPremiumPercent:
		log.Printf("[WARN] capping extreme premium for %s: %.1f%% -> %.0f%%", symbol, discount, maxPremiumPercent)
		return price * (1 + maxPremiumPercent/100), maxPremiumPercent
	case discount < minDiscountPercent:
		log.Printf("[WARN] capping extreme discount for %s: %.1f%% -> %.0f%%", symbol, discount, minDiscountPercent)
		return price * (1 + minDiscountPercent/100), minDiscountPercent
	}
	return fair, discount
}
