package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"AEXScanner/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API:
// quoteSummary for summary fields and fundamentals-timeseries for the
// annual statements.
type YahooFetcher struct {
	Client     *http.Client
	BaseURL    string // overridable for tests
	MaxRetries int
	RetryDelay time.Duration
}

// NewYahooFetcher creates a fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, maxRetries int, retryDelay time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL:    "https://query1.finance.yahoo.com",
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// rawValue is Yahoo's {raw, fmt} number wrapper. Raw stays nil when the
// field is absent, which must not collapse to zero.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// quoteSummary is the subset of the quoteSummary response the scanner uses.
type quoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName          string   `json:"shortName"`
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
			} `json:"price"`
			SummaryProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
			FinancialData struct {
				CurrentPrice    rawValue `json:"currentPrice"`
				TotalCash       rawValue `json:"totalCash"`
				TotalDebt       rawValue `json:"totalDebt"`
				FreeCashflow    rawValue `json:"freeCashflow"`
				RevenueGrowth   rawValue `json:"revenueGrowth"`
				ReturnOnEquity  rawValue `json:"returnOnEquity"`
				TotalRevenue    rawValue `json:"totalRevenue"`
				TargetMeanPrice rawValue `json:"targetMeanPrice"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				Beta              rawValue `json:"beta"`
				SharesOutstanding rawValue `json:"sharesOutstanding"`
				TrailingEps       rawValue `json:"trailingEps"`
				NetIncomeToCommon rawValue `json:"netIncomeToCommon"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Timeseries line items and the statement row names they populate.
var timeseriesRows = map[string]struct {
	statement string // "cashflow", "income" or "balance"
	row       string
}{
	"annualFreeCashFlow":                {"cashflow", "Free Cash Flow"},
	"annualNetIncome":                   {"income", "Net Income"},
	"annualNetIncomeCommonStockholders": {"income", "Net Income Common Stockholders"},
	"annualStockholdersEquity":          {"balance", "Stockholders Equity"},
	"annualCommonStockEquity":           {"balance", "Common Stock Equity"},
}

// FetchFundamentals retrieves a snapshot with retry. Transport and HTTP
// errors back off exponentially with jitter; payloads without a company
// name retry after a linear wait. A failed statements fetch degrades to an
// otherwise-complete snapshot rather than failing the symbol.
func (f *YahooFetcher) FetchFundamentals(symbol string) (*model.Fundamentals, error) {
	var lastErr error
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		snap, err := f.fetchSummary(symbol)
		if err != nil {
			lastErr = err
			if attempt == f.MaxRetries {
				break
			}
			wait := time.Duration(float64(f.RetryDelay) * float64(int(1)<<uint(attempt+1)) * (1 + rand.Float64()))
			logRetry(symbol, err, wait, attempt+1, f.MaxRetries)
			time.Sleep(wait)
			continue
		}
		if snap.ShortName == "" {
			lastErr = fmt.Errorf("incomplete data for %s", symbol)
			if attempt == f.MaxRetries {
				break
			}
			wait := time.Duration(float64(f.RetryDelay) * (1 + rand.Float64()))
			logRetry(symbol, lastErr, wait, attempt+1, f.MaxRetries)
			time.Sleep(wait)
			continue
		}

		f.attachStatements(symbol, snap)
		snap.FetchedAt = time.Now()
		return snap, nil
	}
	return nil, fmt.Errorf("fetch %s after %d retries: %w", symbol, f.MaxRetries, lastErr)
}

func (f *YahooFetcher) fetchSummary(symbol string) (*model.Fundamentals, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryProfile,financialData,defaultKeyStatistics",
		f.BaseURL, url.PathEscape(symbol))

	var qs quoteSummary
	if err := f.getJSON(u, &qs); err != nil {
		return nil, err
	}
	if qs.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data for %s", symbol)
	}
	r := qs.QuoteSummary.Result[0]

	price := r.FinancialData.CurrentPrice.Raw
	if price == nil {
		price = r.Price.RegularMarketPrice.Raw
	}

	return &model.Fundamentals{
		Symbol:            symbol,
		ShortName:         r.Price.ShortName,
		CurrentPrice:      price,
		SharesOutstanding: r.DefaultKeyStatistics.SharesOutstanding.Raw,
		Sector:            r.SummaryProfile.Sector,
		Industry:          r.SummaryProfile.Industry,
		Beta:              r.DefaultKeyStatistics.Beta.Raw,
		TotalCash:         r.FinancialData.TotalCash.Raw,
		TotalDebt:         r.FinancialData.TotalDebt.Raw,
		TrailingEPS:       r.DefaultKeyStatistics.TrailingEps.Raw,
		RevenueGrowth:     r.FinancialData.RevenueGrowth.Raw,
		ReturnOnEquity:    r.FinancialData.ReturnOnEquity.Raw,
		TotalRevenue:      r.FinancialData.TotalRevenue.Raw,
		FreeCashFlow:      r.FinancialData.FreeCashflow.Raw,
		NetIncomeToCommon: r.DefaultKeyStatistics.NetIncomeToCommon.Raw,
		TargetMeanPrice:   r.FinancialData.TargetMeanPrice.Raw,
		CashFlow:          model.Statement{},
		IncomeStmt:        model.Statement{},
		BalanceSheet:      model.Statement{},
	}, nil
}

// attachStatements fills the annual statement tables. Errors here only
// degrade data quality, they never fail the symbol.
func (f *YahooFetcher) attachStatements(symbol string, snap *model.Fundamentals) {
	types := make([]string, 0, len(timeseriesRows))
	for t := range timeseriesRows {
		types = append(types, t)
	}
	sort.Strings(types)

	now := time.Now()
	u := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?type=%s&period1=%d&period2=%d",
		f.BaseURL, url.PathEscape(symbol), strings.Join(types, ","),
		now.AddDate(-5, 0, 0).Unix(), now.Unix())

	var ts struct {
		Timeseries struct {
			Result []map[string]json.RawMessage `json:"result"`
		} `json:"timeseries"`
	}
	if err := f.getJSON(u, &ts); err != nil {
		logStatementSkip(symbol, err)
		return
	}

	for _, result := range ts.Timeseries.Result {
		var meta struct {
			Type []string `json:"type"`
		}
		if raw, ok := result["meta"]; ok {
			if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Type) == 0 {
				continue
			}
		} else {
			continue
		}
		lineType := meta.Type[0]
		dest, ok := timeseriesRows[lineType]
		if !ok {
			continue
		}

		var periods []*struct {
			ReportedValue rawValue `json:"reportedValue"`
		}
		if raw, ok := result[lineType]; ok {
			if err := json.Unmarshal(raw, &periods); err != nil {
				continue
			}
		}

		// Timeseries arrives oldest first; statements store newest first.
		series := make([]*float64, 0, len(periods))
		for i := len(periods) - 1; i >= 0; i-- {
			if periods[i] == nil {
				series = append(series, nil)
				continue
			}
			series = append(series, periods[i].ReportedValue.Raw)
		}

		switch dest.statement {
		case "cashflow":
			snap.CashFlow[dest.row] = series
		case "income":
			snap.IncomeStmt[dest.row] = series
		case "balance":
			snap.BalanceSheet[dest.row] = series
		}
	}
}

func (f *YahooFetcher) getJSON(u string, out interface{}) error {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}
