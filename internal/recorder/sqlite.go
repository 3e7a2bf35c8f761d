package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"AEXScanner/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc readers don't block a running scan.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS valuation_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at    INTEGER NOT NULL,
			universe_size INTEGER NOT NULL,
			valued        INTEGER NOT NULL,
			failed        INTEGER NOT NULL,
			ticker_source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON valuation_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS run_results (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           INTEGER NOT NULL REFERENCES valuation_runs(id),
			ticker           TEXT NOT NULL,
			company          TEXT,
			current_price    REAL,
			fair_value       REAL,
			discount_percent REAL,
			method           TEXT,
			error            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON run_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_ticker ON run_results(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the run header and one row per scanned symbol.
func (r *SQLiteRecorder) RecordRun(sum *RunSummary, results []*model.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO valuation_runs
		(started_at, universe_size, valued, failed, ticker_source)
		VALUES (?,?,?,?,?)`,
		sum.StartedAt.Unix(), sum.Universe, sum.Valued, sum.Failed, sum.Source,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, result := range results {
		var fair sql.NullFloat64
		if result.FairValue != nil {
			fair = sql.NullFloat64{Float64: *result.FairValue, Valid: true}
		}
		_, err := r.db.Exec(`INSERT INTO run_results
			(run_id, ticker, company, current_price, fair_value, discount_percent, method, error)
			VALUES (?,?,?,?,?,?,?,?)`,
			runID, result.Ticker, result.Company, result.CurrentPrice,
			fair, result.DiscountPercent, result.Method, result.Err,
		)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", result.Ticker, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
