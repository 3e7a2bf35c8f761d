package valuation

// Discount rate bounds and building blocks.
const (
	baseRate         = 0.08
	riskPremium      = 0.04
	riskPremiumBanks = 0.045
	minDiscountRate  = 0.07
	maxDiscountRate  = 0.16
)

// EstimateDiscountRate derives a company-specific cost of capital from
// beta. Without a usable beta it falls back to the default WACC, nudged up
// slightly for financials.
func EstimateDiscountRate(beta *float64, isFinancial bool, p Params) float64 {
	if beta != nil && *beta > 0 {
		premium := riskPremium
		if isFinancial {
			premium = riskPremiumBanks
		}
		rate := baseRate + (*beta-1)*premium
		if rate < minDiscountRate {
			rate = minDiscountRate
		}
		if rate > maxDiscountRate {
			rate = maxDiscountRate
		}
		return rate
	}
	if isFinancial {
		return p.DefaultWACC + 0.01
	}
	return p.DefaultWACC
}
