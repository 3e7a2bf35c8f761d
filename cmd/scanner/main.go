package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"AEXScanner/internal/collector"
	"AEXScanner/internal/config"
	"AEXScanner/internal/fairvalue"
	"AEXScanner/internal/notifier"
	"AEXScanner/internal/recorder"
	"AEXScanner/internal/report"
	"AEXScanner/internal/scanner"
	"AEXScanner/internal/tickers"
	"AEXScanner/internal/valuation"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath    = flag.String("config", "configs/config.yaml", "path to YAML config")
		doScan     = flag.Bool("scan", false, "run a DCF scan over the ticker universe")
		doUpdate   = flag.Bool("update", false, "refresh analyst price targets")
		doAll      = flag.Bool("all", false, "scan and refresh analyst targets")
		doReport   = flag.Bool("report", false, "print the combined fair value store")
		doTickers  = flag.Bool("tickers", false, "print the resolved ticker universe")
		updateJSON = flag.Bool("update-json", false, "regenerate the JSON ticker fallback from the CSV")
		daemon     = flag.Bool("daemon", false, "run scheduled scans with Telegram summaries")
	)
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if !*doScan && !*doUpdate && !*doAll && !*doReport && !*doTickers && !*updateJSON && !*daemon {
		flag.Usage()
		os.Exit(2)
	}

	store, err := fairvalue.NewManager(cfg.Files.FairValues, cfg.Files.BackupDir)
	if err != nil {
		log.Fatalf("[FATAL] init fair value store: %v", err)
	}

	if *doTickers {
		symbols, info := tickers.Load(cfg.Files.TickersCSV, cfg.Files.TickersJSON)
		fmt.Printf("Source: %s (%s)\n", info.Source, info.Reason)
		for _, s := range symbols {
			fmt.Println(s)
		}
		return
	}
	if *updateJSON {
		symbols, info := tickers.Load(cfg.Files.TickersCSV, cfg.Files.TickersJSON)
		if info.Source != tickers.SourceCSV {
			log.Fatalf("[FATAL] CSV universe unavailable, refusing to rewrite fallback: %s", info.Reason)
		}
		if err := tickers.UpdateJSON(symbols, cfg.Files.TickersJSON, cfg.Files.BackupDir); err != nil {
			log.Fatalf("[FATAL] update tickers json: %v", err)
		}
		return
	}
	if *doReport {
		printStore(store)
		return
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	fetcher := collector.NewYahooFetcher(cfg.Proxy, cfg.Fetch.MaxRetries, cfg.RetryDelay())
	log.Printf("[INFO] data source: %s", fetcher.Name())

	params := valuation.DefaultParams()
	params.GrowthYears = cfg.Valuation.GrowthYears
	params.DefaultGrowthRate = cfg.Valuation.DefaultGrowthRate
	params.DefaultTerminalGrowth = cfg.Valuation.DefaultTerminalGrowth
	params.DefaultWACC = cfg.Valuation.DefaultWACC

	sc := &scanner.Scanner{
		Fetcher:   fetcher,
		Engine:    valuation.NewEngine(params),
		Store:     store,
		Recorder:  rec,
		OutputDir: cfg.Files.OutputDir,
	}

	if *daemon {
		runDaemon(cfg, sc)
		return
	}

	symbols, info := tickers.Load(cfg.Files.TickersCSV, cfg.Files.TickersJSON)
	if len(symbols) == 0 {
		log.Fatalf("[FATAL] %s", info.Reason)
	}

	if *doScan || *doAll {
		path, results, err := sc.Run(symbols, info.Source)
		if err != nil {
			log.Fatalf("[FATAL] scan: %v", err)
		}
		fmt.Print(report.RenderTable(results))
		fmt.Printf("\nReport written to %s\n", path)
	}
	if *doUpdate || *doAll {
		if err := sc.UpdateAnalystTargets(symbols); err != nil {
			log.Fatalf("[FATAL] analyst targets: %v", err)
		}
	}
}

func printStore(store *fairvalue.Manager) {
	combined := store.Combined()
	symbols := make([]string, 0, len(combined))
	for s := range combined {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	fmt.Printf("Priority: %v\n", store.Priority())
	for _, s := range symbols {
		fmt.Printf("%-10s %10.2f\n", s, combined[s])
	}
}

func runDaemon(cfg *config.Config, sc *scanner.Scanner) {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		log.Fatal("[FATAL] daemon mode requires telegram.bot_token and telegram.chat_id")
	}
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := scanner.NewDaemon(ctx, sc, tn, cfg.Files.TickersCSV, cfg.Files.TickersJSON)
	if err := d.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register scan task: %v", err)
	}
	d.Start()
	defer d.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go d.RunNow()
	}

	log.Println("[INFO] AEXScanner daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] AEXScanner stopped")
}
