package collector

import (
	"fmt"
	"log"
	"time"

	"AEXScanner/internal/model"
)

func logRetry(symbol string, err error, wait time.Duration, attempt, max int) {
	log.Printf("[WARN] fetch %s failed: %v, retrying in %.2fs (attempt %d/%d)",
		symbol, err, wait.Seconds(), attempt, max)
}

func logStatementSkip(symbol string, err error) {
	log.Printf("[WARN] statements for %s unavailable, continuing with summary data: %v", symbol, err)
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Data map[string]*model.Fundamentals
	Errs map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchFundamentals(symbol string) (*model.Fundamentals, error) {
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if f, ok := m.Data[symbol]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("mock: no data for %s", symbol)
}
