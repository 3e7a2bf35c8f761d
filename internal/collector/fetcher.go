package collector

import "AEXScanner/internal/model"

// Fetcher retrieves a per-company fundamentals snapshot.
type Fetcher interface {
	FetchFundamentals(symbol string) (*model.Fundamentals, error)
	Name() string
}
