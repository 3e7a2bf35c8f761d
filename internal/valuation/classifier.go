package valuation

import "strings"

// Classifier decides whether a company should be valued as a financial
// institution (bank, insurer) rather than a standard operating company.
// Both lists are plain configuration so tests can substitute alternates.
type Classifier struct {
	Keywords        []string
	KnownFinancials map[string]bool
}

// NewClassifier returns a classifier with the default keyword set and the
// AEX financials allow-list.
func NewClassifier() *Classifier {
	return &Classifier{
		Keywords: []string{"bank", "financ", "insurance", "invest", "credit"},
		KnownFinancials: map[string]bool{
			"INGA.AS":  true,
			"ABN.AS":   true,
			"NN.AS":    true,
			"AGN.AS":   true,
			"ASRNL.AS": true,
		},
	}
}

// IsFinancial reports whether sector or industry text matches a financial
// keyword, or the symbol is on the allow-list. Missing sector/industry
// (empty strings) never match.
func (c *Classifier) IsFinancial(sector, industry, symbol string) bool {
	sector = strings.ToLower(sector)
	industry = strings.ToLower(industry)
	for _, kw := range c.Keywords {
		if strings.Contains(sector, kw) || strings.Contains(industry, kw) {
			return true
		}
	}
	return c.KnownFinancials[symbol]
}
