package valuation

import (
	"testing"

	"AEXScanner/internal/model"
)

func TestValuate_SelectorExclusivity(t *testing.T) {
	// Non-financial with positive FCF must go through the FCF model even
	// though earnings data would also support a valuation.
	f := &model.Fundamentals{
		Symbol:            "ASML.AS",
		ShortName:         "ASML Holding",
		Sector:            "Technology",
		Industry:          "Semiconductors",
		CurrentPrice:      fp(600),
		SharesOutstanding: fp(400e6),
		CashFlow: model.Statement{
			"Free Cash Flow": []*float64{fp(1000e6)},
		},
		IncomeStmt: model.Statement{
			"Net Income": []*float64{fp(2000e6)},
		},
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.Method != model.MethodFCF {
		t.Fatalf("expected %q, got %q (err=%q)", model.MethodFCF, res.Method, res.Err)
	}
}

func TestValuate_FinancialUsesEarnings(t *testing.T) {
	f := &model.Fundamentals{
		Symbol:            "INGA.AS",
		ShortName:         "ING Groep",
		Sector:            "Unknown", // allow-list must still classify it
		CurrentPrice:      fp(15),
		SharesOutstanding: fp(3500e6),
		CashFlow: model.Statement{
			"Free Cash Flow": []*float64{fp(8000e6)},
		},
		IncomeStmt: model.Statement{
			"Net Income": []*float64{fp(6000e6)},
		},
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.Method != model.MethodEarnings {
		t.Fatalf("expected %q, got %q (err=%q)", model.MethodEarnings, res.Method, res.Err)
	}
}

func TestValuate_NegativeFCFNonFinancialUsesEarnings(t *testing.T) {
	f := &model.Fundamentals{
		Symbol:            "XYZ.AS",
		CurrentPrice:      fp(50),
		SharesOutstanding: fp(100e6),
		CashFlow: model.Statement{
			"Free Cash Flow": []*float64{fp(-200e6)},
		},
		IncomeStmt: model.Statement{
			"Net Income": []*float64{fp(400e6)},
		},
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.Method != model.MethodEarnings {
		t.Fatalf("expected %q, got %q (err=%q)", model.MethodEarnings, res.Method, res.Err)
	}
}

func TestValuate_BookValueFallbackWithinBranch(t *testing.T) {
	// Financial with no usable earnings falls back to price-to-book.
	f := &model.Fundamentals{
		Symbol:            "ABN.AS",
		CurrentPrice:      fp(14),
		SharesOutstanding: fp(900e6),
		BalanceSheet: model.Statement{
			"Stockholders Equity": []*float64{fp(22000e6)},
		},
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.Method != model.MethodBook {
		t.Fatalf("expected %q, got %q (err=%q)", model.MethodBook, res.Method, res.Err)
	}
}

func TestValuate_EPSFallback(t *testing.T) {
	// No FCF, no earnings, no book value: only the P/E multiple remains.
	f := &model.Fundamentals{
		Symbol:            "KPN.AS",
		CurrentPrice:      fp(100),
		SharesOutstanding: fp(1e6),
		TrailingEPS:       fp(5.0),
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.Method != model.MethodPE {
		t.Fatalf("expected %q, got %q (err=%q)", model.MethodPE, res.Method, res.Err)
	}
	if res.FairValue == nil || *res.FairValue != 75.0 {
		t.Fatalf("expected fair value 75.00, got %v", res.FairValue)
	}
	if res.DiscountPercent != -25.0 {
		t.Errorf("expected discount -25%%, got %.2f%%", res.DiscountPercent)
	}
}

func TestValuate_PremiumCap(t *testing.T) {
	// Book value per share 500 against a 100 price: raw +400% premium must
	// cap at +300% with fair value recomputed to 4x price.
	f := &model.Fundamentals{
		Symbol:            "AGN.AS", // financial via allow-list
		CurrentPrice:      fp(100),
		SharesOutstanding: fp(10),
		BalanceSheet: model.Statement{
			"Stockholders Equity": []*float64{fp(5000)},
		},
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.DiscountPercent != 300 {
		t.Fatalf("expected capped discount 300%%, got %.2f%%", res.DiscountPercent)
	}
	if res.FairValue == nil || *res.FairValue != 400 {
		t.Errorf("expected recomputed fair value 400, got %v", res.FairValue)
	}
}

func TestValuate_DiscountCap(t *testing.T) {
	// Book value per share 10 against a 100 price: raw -90% caps at -80%.
	f := &model.Fundamentals{
		Symbol:            "AGN.AS",
		CurrentPrice:      fp(100),
		SharesOutstanding: fp(10),
		BalanceSheet: model.Statement{
			"Stockholders Equity": []*float64{fp(100)},
		},
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.DiscountPercent != -80 {
		t.Fatalf("expected capped discount -80%%, got %.2f%%", res.DiscountPercent)
	}
	if res.FairValue == nil || *res.FairValue != 20 {
		t.Errorf("expected recomputed fair value 20, got %v", res.FairValue)
	}
}

func TestValuate_MissingPriceIsHardFailure(t *testing.T) {
	// Fully populated fundamentals cannot rescue a missing price.
	f := &model.Fundamentals{
		Symbol:            "WKL.AS",
		SharesOutstanding: fp(250e6),
		TrailingEPS:       fp(4.2),
		CashFlow: model.Statement{
			"Free Cash Flow": []*float64{fp(1000e6)},
		},
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.Method != model.MethodFailed {
		t.Fatalf("expected failed result, got %q", res.Method)
	}
	if res.FairValue != nil {
		t.Error("failed result must not carry a fair value")
	}
	if res.Err != "Missing price or shares outstanding data" {
		t.Errorf("unexpected error text: %q", res.Err)
	}
}

func TestValuate_InsufficientData(t *testing.T) {
	f := &model.Fundamentals{
		Symbol:            "PRX.AS",
		CurrentPrice:      fp(30),
		SharesOutstanding: fp(1e9),
	}
	res := NewEngine(DefaultParams()).Valuate(f)
	if res.Method != model.MethodFailed {
		t.Fatalf("expected failed result, got %q", res.Method)
	}
	if res.Err != "Insufficient data for valuation" {
		t.Errorf("unexpected error text: %q", res.Err)
	}
}

func TestValuate_DegenerateRateFallsToEPS(t *testing.T) {
	// Terminal growth configured above any reachable discount rate makes the
	// FCF perpetuity undefined; the EPS fallback should still fire.
	p := DefaultParams()
	p.DefaultTerminalGrowth = 0.50
	f := &model.Fundamentals{
		Symbol:            "REN.AS",
		CurrentPrice:      fp(40),
		SharesOutstanding: fp(100e6),
		TrailingEPS:       fp(2.0),
		CashFlow: model.Statement{
			"Free Cash Flow": []*float64{fp(500e6)},
		},
	}
	res := NewEngine(p).Valuate(f)
	if res.Method != model.MethodPE {
		t.Fatalf("expected EPS fallback after degenerate rate, got %q (err=%q)", res.Method, res.Err)
	}
	if res.FairValue == nil || *res.FairValue != 30.0 {
		t.Errorf("expected fair value 30.00, got %v", res.FairValue)
	}
}
