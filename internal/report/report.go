package report

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"AEXScanner/internal/model"
)

// Rank orders results by discount, deepest first. Failed symbols sort to
// the bottom in ticker order so the interesting rows lead the report.
func Rank(results []*model.Result) []*model.Result {
	ranked := append([]*model.Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Valued() != b.Valued() {
			return a.Valued()
		}
		if !a.Valued() {
			return a.Ticker < b.Ticker
		}
		return a.DiscountPercent > b.DiscountPercent
	})
	return ranked
}

var csvHeader = []string{"Ticker", "Company", "Current Price", "Fair Value", "Discount %", "Method", "Error"}

// WriteCSV writes the ranked scan report into dir with a timestamped
// filename and returns the path.
func WriteCSV(results []*model.Result, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("aex_scan_%s.csv", time.Now().Format("20060102_150405")))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, r := range Rank(results) {
		if err := w.Write(csvRow(r)); err != nil {
			return "", fmt.Errorf("write row %s: %w", r.Ticker, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}

	log.Printf("[INFO] wrote scan report: %s (%d rows)", path, len(results))
	return path, nil
}

func csvRow(r *model.Result) []string {
	if !r.Valued() {
		return []string{r.Ticker, r.Company, formatPrice(r.CurrentPrice), "", "", r.Method, r.Err}
	}
	return []string{
		r.Ticker,
		r.Company,
		formatPrice(r.CurrentPrice),
		fmt.Sprintf("%.2f", *r.FairValue),
		fmt.Sprintf("%.1f", r.DiscountPercent),
		r.Method,
		"",
	}
}

func formatPrice(p float64) string {
	if p == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", p)
}

// RenderTable produces a fixed-width text table of the ranked results for
// console output.
func RenderTable(results []*model.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-28s %10s %10s %10s  %-18s %s\n",
		"Ticker", "Company", "Price", "Fair", "Disc %", "Method", "Error")
	b.WriteString(strings.Repeat("-", 100))
	b.WriteString("\n")

	for _, r := range Rank(results) {
		company := r.Company
		if len(company) > 28 {
			company = company[:25] + "..."
		}
		if r.Valued() {
			fmt.Fprintf(&b, "%-10s %-28s %10.2f %10.2f %10.1f  %-18s\n",
				r.Ticker, company, r.CurrentPrice, *r.FairValue, r.DiscountPercent, r.Method)
			continue
		}
		fmt.Fprintf(&b, "%-10s %-28s %10s %10s %10s  %-18s %s\n",
			r.Ticker, company, formatPrice(r.CurrentPrice), "-", "-", r.Method, r.Err)
	}
	return b.String()
}
