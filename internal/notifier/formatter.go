package notifier

import (
	"fmt"
	"strings"
	"time"

	"AEXScanner/internal/model"
	"AEXScanner/internal/report"
)

// FormatScanSummary formats a finished scan into a Telegram message: the
// deepest-discounted names first, failures counted at the bottom.
func FormatScanSummary(results []*model.Result, topN int) string {
	ranked := report.Rank(results)

	valued, failed := 0, 0
	for _, r := range ranked {
		if r.Valued() {
			valued++
		} else {
			failed++
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>AEX Fair Value Scan</b> | %s\n\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Valued %d of %d symbols\n\n", valued, valued+failed))

	if valued > 0 {
		b.WriteString("💰 <b>Deepest discounts:</b>\n")
		shown := 0
		for _, r := range ranked {
			if !r.Valued() || shown >= topN {
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s: %.2f → %.2f (%+.1f%%) [%s]\n",
				discountMarker(r.DiscountPercent), r.Ticker,
				r.CurrentPrice, *r.FairValue, r.DiscountPercent, r.Method))
			shown++
		}
	}

	if failed > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ %d symbols could not be valued\n", failed))
	}
	return b.String()
}

func discountMarker(discount float64) string {
	switch {
	case discount >= 30:
		return "🟢"
	case discount >= 0:
		return "🟡"
	default:
		return "🔴"
	}
}
