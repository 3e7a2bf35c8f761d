package valuation

// Params holds the process-wide valuation defaults. A batch run shares one
// immutable Params value; per-call overrides get their own copy.
type Params struct {
	GrowthYears           int     // explicit forecast horizon
	DefaultGrowthRate     float64 // growth assumption when none can be derived
	DefaultTerminalGrowth float64 // perpetuity growth beyond the horizon
	DefaultWACC           float64 // discount rate when beta is unavailable
	PERatioBanks          float64 // reserved, not consulted by any method yet
}

// DefaultParams returns the tuning the scanner has always shipped with.
func DefaultParams() Params {
	return Params{
		GrowthYears:           5,
		DefaultGrowthRate:     0.03,
		DefaultTerminalGrowth: 0.025,
		DefaultWACC:           0.095,
		PERatioBanks:          10.0,
	}
}
