package scanner

import (
	"context"
	"fmt"
	"log"

	"AEXScanner/internal/notifier"
	"AEXScanner/internal/tickers"

	"github.com/robfig/cron/v3"
)

// Daemon runs scheduled scans and pushes summaries to Telegram.
type Daemon struct {
	Cron     *cron.Cron
	Scanner  *Scanner
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context

	CSVPath  string
	JSONPath string
}

// NewDaemon creates a Daemon around an existing Scanner.
func NewDaemon(ctx context.Context, s *Scanner, tn *notifier.TelegramNotifier, csvPath, jsonPath string) *Daemon {
	return &Daemon{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  s,
		Notifier: tn,
		Ctx:      ctx,
		CSVPath:  csvPath,
		JSONPath: jsonPath,
	}
}

// Register schedules the scan task.
func (d *Daemon) Register(scanCron string) error {
	if _, err := d.Cron.AddFunc(scanCron, d.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (d *Daemon) Start() {
	d.Cron.Start()
	log.Println("[INFO] scan scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (d *Daemon) Stop() {
	d.Cron.Stop()
	log.Println("[INFO] scan scheduler stopped")
}

// RunNow executes the scan task immediately (manual trigger).
func (d *Daemon) RunNow() {
	d.scanTask()
}

func (d *Daemon) scanTask() {
	log.Println("[INFO] running scheduled scan")

	symbols, info := tickers.Load(d.CSVPath, d.JSONPath)
	if len(symbols) == 0 {
		log.Printf("[ERROR] scheduled scan: %s", info.Reason)
		d.trySend(fmt.Sprintf("❌ AEX scan aborted: %s", info.Reason))
		return
	}

	path, results, err := d.Scanner.Run(symbols, info.Source)
	if err != nil {
		log.Printf("[ERROR] scheduled scan: %v", err)
		d.trySend(fmt.Sprintf("❌ AEX scan failed: %v", err))
		return
	}
	log.Printf("[INFO] scheduled scan report: %s", path)

	d.trySend(notifier.FormatScanSummary(results, 10))
}

func (d *Daemon) trySend(text string) {
	if d.Notifier == nil {
		return
	}
	if err := d.Notifier.SendWithRetry(d.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] telegram notify: %v", err)
	}
}
