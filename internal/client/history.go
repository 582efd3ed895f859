package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HistoryCapacity is how many recent searches are remembered.
const HistoryCapacity = 5

// SearchHistory keeps recent search terms, newest first, without duplicates.
// It is independent of the catalog cache and survives restarts via Load/Save.
type SearchHistory struct {
	path  string
	terms []string
}

func NewSearchHistory(path string) *SearchHistory {
	return &SearchHistory{path: path, terms: []string{}}
}

// Add records term (trimmed, lower-cased). Blank terms are ignored.
func (h *SearchHistory) Add(term string) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return
	}
	next := make([]string, 0, HistoryCapacity)
	next = append(next, term)
	for _, t := range h.terms {
		if t != term && len(next) < HistoryCapacity {
			next = append(next, t)
		}
	}
	h.terms = next
}

func (h *SearchHistory) Terms() []string {
	out := make([]string, len(h.terms))
	copy(out, h.terms)
	return out
}

func (h *SearchHistory) Clear() { h.terms = []string{} }

// Load reads the history file. A missing file is an empty history.
func (h *SearchHistory) Load() error {
	b, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		h.terms = []string{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read search history: %w", err)
	}
	var terms []string
	if err := json.Unmarshal(b, &terms); err != nil {
		return fmt.Errorf("decode search history: %w", err)
	}
	h.terms = []string{}
	// re-add oldest first so normalization and the cap apply to hand-edited files
	for i := len(terms) - 1; i >= 0; i-- {
		h.Add(terms[i])
	}
	return nil
}

func (h *SearchHistory) Save() error {
	return writeJSON(h.path, h.terms)
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
