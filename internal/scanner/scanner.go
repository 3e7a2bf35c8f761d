package scanner

import (
	"fmt"
	"log"
	"time"

	"AEXScanner/internal/collector"
	"AEXScanner/internal/fairvalue"
	"AEXScanner/internal/model"
	"AEXScanner/internal/recorder"
	"AEXScanner/internal/report"
	"AEXScanner/internal/valuation"
)

// Scanner runs the full valuation pipeline over a ticker universe.
type Scanner struct {
	Fetcher   collector.Fetcher
	Engine    *valuation.Engine
	Store     *fairvalue.Manager
	Recorder  recorder.Recorder
	OutputDir string
}

// Scan fetches and valuates every symbol sequentially. A failed symbol
// yields a failed Result; the batch always runs to completion.
func (s *Scanner) Scan(symbols []string) []*model.Result {
	results := make([]*model.Result, 0, len(symbols))
	for i, symbol := range symbols {
		log.Printf("[INFO] scanning %s (%d/%d)", symbol, i+1, len(symbols))

		f, err := s.Fetcher.FetchFundamentals(symbol)
		if err != nil {
			log.Printf("[ERROR] fetch %s: %v", symbol, err)
			results = append(results, &model.Result{
				Ticker:  symbol,
				Company: symbol,
				Method:  model.MethodFailed,
				Err:     fmt.Sprintf("Failed to fetch stock data: %v", err),
			})
			continue
		}
		results = append(results, s.Engine.Valuate(f))
	}
	return results
}

// FairValues extracts the successfully valued symbols as a symbol -> fair
// value map for persistence.
func FairValues(results []*model.Result) map[string]float64 {
	values := make(map[string]float64)
	for _, r := range results {
		if r.Valued() {
			values[r.Ticker] = *r.FairValue
		}
	}
	return values
}

// Run performs a full scan: valuate the universe, persist the model output,
// record the run, and write the CSV report. Returns the report path.
func (s *Scanner) Run(symbols []string, tickerSource string) (string, []*model.Result, error) {
	started := time.Now()
	results := s.Scan(symbols)

	values := FairValues(results)
	if err := s.Store.Save(values, fairvalue.SourceDCF); err != nil {
		return "", results, fmt.Errorf("save fair values: %w", err)
	}

	sum := &recorder.RunSummary{
		StartedAt: started,
		Universe:  len(symbols),
		Valued:    len(values),
		Failed:    len(results) - len(values),
		Source:    tickerSource,
	}
	if err := s.Recorder.RecordRun(sum, results); err != nil {
		log.Printf("[ERROR] recording run: %v", err)
	}

	path, err := report.WriteCSV(results, s.OutputDir)
	if err != nil {
		return "", results, fmt.Errorf("write report: %w", err)
	}

	log.Printf("[INFO] scan complete: %d/%d valued in %s", len(values), len(symbols),
		time.Since(started).Round(time.Second))
	return path, results, nil
}

// UpdateAnalystTargets refreshes the analyst price targets for the universe
// and persists them as a separate source.
func (s *Scanner) UpdateAnalystTargets(symbols []string) error {
	targets := make(map[string]float64)
	for _, symbol := range symbols {
		f, err := s.Fetcher.FetchFundamentals(symbol)
		if err != nil {
			log.Printf("[WARN] analyst target fetch %s: %v", symbol, err)
			continue
		}
		if f.TargetMeanPrice != nil && *f.TargetMeanPrice > 0 {
			targets[symbol] = *f.TargetMeanPrice
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("no analyst targets retrieved for %d symbols", len(symbols))
	}
	return s.Store.Save(targets, fairvalue.SourceAnalyst)
}
