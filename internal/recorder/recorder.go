package recorder

import (
	"time"

	"AEXScanner/internal/model"
)

// RunSummary holds the aggregate outcome of one scan over the universe.
type RunSummary struct {
	StartedAt time.Time
	Universe  int    // symbols attempted
	Valued    int    // symbols with a fair value
	Failed    int    // symbols without one
	Source    string // where the ticker universe came from
}

// Recorder persists scan history for later analysis.
type Recorder interface {
	RecordRun(sum *RunSummary, results []*model.Result) error
	Close() error
}
