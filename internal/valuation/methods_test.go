package valuation

import (
	"errors"
	"math"
	"testing"

	"AEXScanner/internal/model"
)

func TestFCFBasedValue_PositiveFinite(t *testing.T) {
	p := DefaultParams()
	f := &model.Fundamentals{SharesOutstanding: fp(1e6)}
	for _, fcf := range []float64{1e3, 1e6, 5e8} {
		for _, rate := range []float64{0.07, 0.095, 0.16} {
			b := &Bundle{FreeCashFlow: fp(fcf), GrowthRate: 0.03}
			got, err := fcfBasedValue(f, b, rate, p)
			if err != nil {
				t.Fatalf("fcf=%.0f rate=%.3f: unexpected error %v", fcf, rate, err)
			}
			if got <= 0 || math.IsInf(got, 0) || math.IsNaN(got) {
				t.Errorf("fcf=%.0f rate=%.3f: fair value %.4f is not positive finite", fcf, rate, got)
			}
		}
	}
}

func TestFCFBasedValue_NetCashBridge(t *testing.T) {
	p := DefaultParams()
	b := &Bundle{FreeCashFlow: fp(1000), GrowthRate: 0.03}

	base := &model.Fundamentals{SharesOutstanding: fp(100)}
	withCash := &model.Fundamentals{
		SharesOutstanding: fp(100),
		TotalCash:         fp(5000),
		TotalDebt:         fp(2000),
	}
	onlyCash := &model.Fundamentals{
		SharesOutstanding: fp(100),
		TotalCash:         fp(5000), // debt unknown: no bridge at all
	}

	v0, err := fcfBasedValue(base, b, 0.095, p)
	if err != nil {
		t.Fatal(err)
	}
	v1, err := fcfBasedValue(withCash, b, 0.095, p)
	if err != nil {
		t.Fatal(err)
	}
	if want := v0 + 3000.0/100; math.Abs(v1-want) > 1e-9 {
		t.Errorf("net cash should shift fair value by netCash/shares: got %.4f, want %.4f", v1, want)
	}
	v2, err := fcfBasedValue(onlyCash, b, 0.095, p)
	if err != nil {
		t.Fatal(err)
	}
	if v2 != v0 {
		t.Errorf("missing debt figure should skip the bridge entirely: got %.4f, want %.4f", v2, v0)
	}
}

func TestFCFBasedValue_Failures(t *testing.T) {
	p := DefaultParams()
	shares := &model.Fundamentals{SharesOutstanding: fp(100)}

	if _, err := fcfBasedValue(shares, &Bundle{}, 0.095, p); !errors.Is(err, ErrMissingInput) {
		t.Errorf("nil FCF: want ErrMissingInput, got %v", err)
	}
	if _, err := fcfBasedValue(shares, &Bundle{FreeCashFlow: fp(-10)}, 0.095, p); !errors.Is(err, ErrMissingInput) {
		t.Errorf("negative FCF: want ErrMissingInput, got %v", err)
	}
	if _, err := fcfBasedValue(&model.Fundamentals{}, &Bundle{FreeCashFlow: fp(100)}, 0.095, p); !errors.Is(err, ErrMissingInput) {
		t.Errorf("missing shares: want ErrMissingInput, got %v", err)
	}
	// Discount rate at or below terminal growth makes the perpetuity undefined.
	if _, err := fcfBasedValue(shares, &Bundle{FreeCashFlow: fp(100)}, 0.02, p); !errors.Is(err, ErrDegenerateRate) {
		t.Errorf("rate <= terminal growth: want ErrDegenerateRate, got %v", err)
	}
	if _, err := fcfBasedValue(shares, &Bundle{FreeCashFlow: fp(100)}, p.DefaultTerminalGrowth, p); !errors.Is(err, ErrDegenerateRate) {
		t.Errorf("rate == terminal growth: want ErrDegenerateRate, got %v", err)
	}
}

func TestEarningsBasedValue_TerminalPE(t *testing.T) {
	p := DefaultParams()
	f := &model.Fundamentals{SharesOutstanding: fp(100)}

	regular, err := earningsBasedValue(f, &Bundle{Earnings: fp(1000), GrowthRate: 0.03}, 0.095, p)
	if err != nil {
		t.Fatal(err)
	}
	financial, err := earningsBasedValue(f, &Bundle{Earnings: fp(1000), GrowthRate: 0.03, IsFinancial: true}, 0.095, p)
	if err != nil {
		t.Fatal(err)
	}
	// Financials exit at 10x instead of 12x, so the value must be lower.
	if financial >= regular {
		t.Errorf("financial terminal PE should value lower: %.4f >= %.4f", financial, regular)
	}
}

func TestEarningsBasedValue_Failures(t *testing.T) {
	p := DefaultParams()
	f := &model.Fundamentals{SharesOutstanding: fp(100)}
	if _, err := earningsBasedValue(f, &Bundle{}, 0.095, p); !errors.Is(err, ErrMissingInput) {
		t.Errorf("nil earnings: want ErrMissingInput, got %v", err)
	}
	if _, err := earningsBasedValue(f, &Bundle{Earnings: fp(-5)}, 0.095, p); !errors.Is(err, ErrMissingInput) {
		t.Errorf("negative earnings: want ErrMissingInput, got %v", err)
	}
	if _, err := earningsBasedValue(&model.Fundamentals{}, &Bundle{Earnings: fp(100)}, 0.095, p); !errors.Is(err, ErrMissingInput) {
		t.Errorf("missing shares: want ErrMissingInput, got %v", err)
	}
}

func TestPriceToBookValue_ROETiers(t *testing.T) {
	// Book value per share is 10 in every case.
	tests := []struct {
		name string
		roe  *float64
		want float64
	}{
		{"excellent ROE", fp(0.25), 20.0},
		{"very good ROE", fp(0.17), 17.0},
		{"good ROE", fp(0.12), 14.0},
		{"average ROE", fp(0.07), 10.0},
		{"poor ROE", fp(0.03), 8.0},
		{"ROE unavailable", nil, 10.0},
	}
	for _, tt := range tests {
		f := &model.Fundamentals{SharesOutstanding: fp(10), ReturnOnEquity: tt.roe}
		b := &Bundle{BookValue: fp(100)}
		got, err := priceToBookValue(f, b)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: got %.4f, want %.4f", tt.name, got, tt.want)
		}
	}
}

func TestPriceToBookValue_Failures(t *testing.T) {
	f := &model.Fundamentals{SharesOutstanding: fp(10)}
	if _, err := priceToBookValue(f, &Bundle{}); !errors.Is(err, ErrMissingInput) {
		t.Errorf("nil book value: want ErrMissingInput, got %v", err)
	}
	if _, err := priceToBookValue(f, &Bundle{BookValue: fp(-1)}); !errors.Is(err, ErrMissingInput) {
		t.Errorf("negative book value: want ErrMissingInput, got %v", err)
	}
	if _, err := priceToBookValue(&model.Fundamentals{}, &Bundle{BookValue: fp(100)}); !errors.Is(err, ErrMissingInput) {
		t.Errorf("missing shares: want ErrMissingInput, got %v", err)
	}
}

func TestPEMultipleValue(t *testing.T) {
	got, err := peMultipleValue(&model.Fundamentals{TrailingEPS: fp(5.0)})
	if err != nil {
		t.Fatal(err)
	}
	if got != 75.0 {
		t.Errorf("EPS 5.0 at 15x: got %.2f, want 75.00", got)
	}
	if _, err := peMultipleValue(&model.Fundamentals{}); !errors.Is(err, ErrMissingInput) {
		t.Errorf("nil EPS: want ErrMissingInput, got %v", err)
	}
	if _, err := peMultipleValue(&model.Fundamentals{TrailingEPS: fp(-2)}); !errors.Is(err, ErrMissingInput) {
		t.Errorf("negative EPS: want ErrMissingInput, got %v", err)
	}
}
