package tickers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source kinds reported by Load.
const (
	SourceCSV  = "csv_file"
	SourceJSON = "json_file"
	SourceNone = "no_tickers_found"
)

// SourceInfo describes where the ticker universe came from, for
// diagnostics.
type SourceInfo struct {
	Source string
	Reason string
	Path   string
	Count  int
}

// jsonDoc is the fallback file layout.
type jsonDoc struct {
	AEXTickers []string `json:"AEX_TICKERS"`
}

// Load resolves the AEX ticker universe: the CSV file is the primary source
// of truth, the JSON file is the fallback. Total failure yields an empty
// universe, never an error — the caller decides whether that is fatal.
func Load(csvPath, jsonPath string) ([]string, SourceInfo) {
	symbols, err := loadCSV(csvPath)
	if err == nil {
		log.Printf("[INFO] loaded %d tickers from %s", len(symbols), csvPath)
		return symbols, SourceInfo{
			Source: SourceCSV,
			Reason: "Successfully loaded from Amsterdam AEX CSV file",
			Path:   csvPath,
			Count:  len(symbols),
		}
	}
	log.Printf("[WARN] loading tickers from CSV: %v, trying JSON fallback", err)

	symbols, err = loadJSON(jsonPath)
	if err == nil {
		log.Printf("[INFO] loaded %d tickers from %s", len(symbols), jsonPath)
		return symbols, SourceInfo{
			Source: SourceJSON,
			Reason: "Successfully loaded from JSON fallback file",
			Path:   jsonPath,
			Count:  len(symbols),
		}
	}
	log.Printf("[ERROR] loading tickers from JSON fallback: %v", err)

	return nil, SourceInfo{
		Source: SourceNone,
		Reason: fmt.Sprintf("No ticker sources available: %v", err),
		Path:   jsonPath,
	}
}

// loadCSV reads the yahoo_ticker column. Leading // comment lines before
// the header are tolerated.
func loadCSV(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(stripComments(string(data))))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	col := -1
	for i, name := range records[0] {
		if strings.TrimSpace(name) == "yahoo_ticker" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("no yahoo_ticker column in %s", path)
	}

	var symbols []string
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		if s := strings.TrimSpace(row[col]); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no valid tickers in %s", path)
	}
	return symbols, nil
}

// loadJSON reads the {"AEX_TICKERS": [...]} fallback. Lines starting with
// // are tolerated for hand-edited files.
func loadJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc jsonDoc
	if err := json.Unmarshal([]byte(stripComments(string(data))), &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if len(doc.AEXTickers) == 0 {
		return nil, fmt.Errorf("no tickers in %s", path)
	}
	return doc.AEXTickers, nil
}

func stripComments(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// UpdateJSON rewrites the JSON fallback file from the given tickers,
// backing up any existing file into backupDir first.
func UpdateJSON(symbols []string, jsonPath, backupDir string) error {
	if _, err := os.Stat(jsonPath); err == nil {
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			return fmt.Errorf("create backup dir: %w", err)
		}
		backup := filepath.Join(backupDir,
			fmt.Sprintf("tickers_backup_%s.json", time.Now().Format("20060102_150405")))
		if data, err := os.ReadFile(jsonPath); err == nil {
			if err := os.WriteFile(backup, data, 0o644); err != nil {
				log.Printf("[WARN] failed to back up %s: %v", jsonPath, err)
			} else {
				log.Printf("[INFO] backed up tickers file to %s", backup)
			}
		}
	}

	data, err := json.MarshalIndent(jsonDoc{AEXTickers: symbols}, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal tickers: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}
	log.Printf("[INFO] updated %s with %d tickers", jsonPath, len(symbols))
	return nil
}
