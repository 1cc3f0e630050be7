package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// DefaultMaxHistoryEntries bounds the history file when no limit is set.
const DefaultMaxHistoryEntries = 1000

// History stores executed command lines with their outcomes.
type History struct {
	path       string
	entries    []*HistoryEntry
	maxEntries int
	mu         sync.RWMutex
}

// HistoryEntry is one executed command.
type HistoryEntry struct {
	ID        int       `json:"id"`
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
	ExitCode  int       `json:"exit_code"`
	Scenario  string    `json:"scenario,omitempty"`
	Success   bool      `json:"success"`
}

type historyFile struct {
	History    []*HistoryEntry `json:"history"`
	MaxEntries int             `json:"max_entries"`
}

// NewHistory creates a history manager for the named application.
func NewHistory(appName string, maxEntries int) (*History, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxHistoryEntries
	}

	h := &History{
		path:       filepath.Join(xdg.StateHome, appName, "history.json"),
		entries:    make([]*HistoryEntry, 0),
		maxEntries: maxEntries,
	}

	if err := h.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
	}
	return h, nil
}

// Load reads history from disk.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if err != nil {
		return err
	}

	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse history file: %w", err)
	}

	h.entries = f.History
	if h.entries == nil {
		h.entries = make([]*HistoryEntry, 0)
	}
	if f.MaxEntries > 0 {
		h.maxEntries = f.MaxEntries
	}
	for i, e := range h.entries {
		e.ID = i + 1
	}
	return nil
}

// Save writes history to disk with an atomic rename.
func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(h.path), 0700); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(historyFile{
		History:    h.entries,
		MaxEntries: h.maxEntries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmpPath := h.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Rename(tmpPath, h.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save history file: %w", err)
	}
	return nil
}

// Record appends an executed command and persists the file.
func (h *History) Record(command string, exitCode int, scenario string) error {
	h.add(&HistoryEntry{
		Command:  command,
		ExitCode: exitCode,
		Scenario: scenario,
	})
	return h.Save()
}

func (h *History) add(entry *HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) > 0 {
		entry.ID = h.entries[len(h.entries)-1].ID + 1
	} else {
		entry.ID = 1
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Success = entry.ExitCode == 0

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
		for i, e := range h.entries {
			e.ID = i + 1
		}
	}
}

// Recent returns the most recent n entries, oldest first.
func (h *History) Recent(n int) []*HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]*HistoryEntry, n)
	copy(out, h.entries[len(h.entries)-n:])
	return out
}

// Search returns entries whose command contains the pattern,
// case-insensitively.
func (h *History) Search(pattern string) []*HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	pattern = strings.ToLower(pattern)
	matches := make([]*HistoryEntry, 0)
	for _, e := range h.entries {
		if strings.Contains(strings.ToLower(e.Command), pattern) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Count returns the number of entries.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Clear drops all entries. The file is untouched until Save.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = make([]*HistoryEntry, 0)
}

// Path returns the history file location.
func (h *History) Path() string { return h.path }
