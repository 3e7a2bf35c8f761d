package fairvalue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Provenance labels for persisted fair values. Priority order decides which
// source wins when several hold an estimate for the same symbol.
const (
	SourceManual  = "manual"
	SourceDCF     = "dcf"
	SourceAnalyst = "analyst"
)

// DefaultPriority is the source order used until the store is told
// otherwise: hand-entered values beat model output, which beats analyst
// targets.
var DefaultPriority = []string{SourceManual, SourceDCF, SourceAnalyst}

// UpdateStamp records when and from which source the store last changed.
type UpdateStamp struct {
	Time   string `json:"time"`
	Source string `json:"source"`
}

type document struct {
	Sources     map[string]map[string]float64 `json:"sources"`
	Priority    []string                      `json:"priority,omitempty"`
	LastUpdated *UpdateStamp                  `json:"last_updated,omitempty"`
}

// Manager persists provenance-keyed fair value estimates in a JSON
// document, with concurrency safety and timestamped backups before every
// overwrite.
type Manager struct {
	mu        sync.Mutex
	path      string
	backupDir string
	doc       *document
}

// NewManager loads the store from disk, or initializes an empty one if the
// file does not exist yet.
func NewManager(path, backupDir string) (*Manager, error) {
	m := &Manager{path: path, backupDir: backupDir}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("[INFO] %s not found, starting with an empty fair value store", path)
		m.doc = &document{Sources: map[string]map[string]float64{}, Priority: append([]string(nil), DefaultPriority...)}
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fair value store: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fair value store: %w", err)
	}
	if doc.Sources == nil {
		doc.Sources = map[string]map[string]float64{}
	}
	if len(doc.Priority) == 0 {
		doc.Priority = append([]string(nil), DefaultPriority...)
	}
	m.doc = &doc
	return m, nil
}

// Save replaces all values of one source and persists the store. Any
// existing file is backed up first.
func (m *Manager) Save(values map[string]float64, source string) error {
	if !validSource(source) {
		return fmt.Errorf("invalid source %q", source)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make(map[string]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	m.doc.Sources[source] = copied
	m.doc.LastUpdated = &UpdateStamp{
		Time:   time.Now().Format("2006-01-02 15:04:05"),
		Source: source,
	}

	if err := m.persist(); err != nil {
		return err
	}
	log.Printf("[INFO] saved %d fair values from source %q", len(copied), source)
	return nil
}

// Values returns a copy of one source's symbol -> fair value mapping.
func (m *Manager) Values(source string) map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]float64, len(m.doc.Sources[source]))
	for k, v := range m.doc.Sources[source] {
		out[k] = v
	}
	return out
}

// Combined merges all sources in priority order: the first source holding a
// symbol wins.
func (m *Manager) Combined() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := map[string]float64{}
	for _, source := range m.doc.Priority {
		for symbol, value := range m.doc.Sources[source] {
			if _, ok := out[symbol]; !ok {
				out[symbol] = value
			}
		}
	}
	return out
}

// Priority returns the current source priority order.
func (m *Manager) Priority() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.doc.Priority...)
}

// SetPriority replaces the source priority order and persists it.
func (m *Manager) SetPriority(priority []string) error {
	for _, source := range priority {
		if !validSource(source) {
			return fmt.Errorf("invalid source %q in priority list", source)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.doc.Priority = append([]string(nil), priority...)
	if err := m.persist(); err != nil {
		return err
	}
	log.Printf("[INFO] updated source priority: %v", priority)
	return nil
}

// persist writes the document to disk, snapshotting the previous file into
// the backup directory. Caller holds the lock.
func (m *Manager) persist() error {
	if prev, err := os.ReadFile(m.path); err == nil {
		if err := os.MkdirAll(m.backupDir, 0o755); err == nil {
			backup := filepath.Join(m.backupDir,
				fmt.Sprintf("fair_values_backup_%s.json", time.Now().Format("20060102_150405")))
			if err := os.WriteFile(backup, prev, 0o644); err != nil {
				log.Printf("[WARN] could not back up fair value store: %v", err)
			}
		}
	}

	data, err := json.MarshalIndent(m.doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal fair value store: %w", err)
	}
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write fair value store: %w", err)
	}
	return nil
}

func validSource(source string) bool {
	return source == SourceManual || source == SourceDCF || source == SourceAnalyst
}
