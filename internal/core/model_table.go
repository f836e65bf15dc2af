package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownModel is the fallback key for blank or unclassified model names.
const UnknownModel = "unknown"

var (
	ErrDuplicateModel      = errors.New("model table: duplicate model with conflicting classification")
	ErrMissingUnknownModel = errors.New("model table: missing unknown fallback entry")
	ErrInvalidUnknownModel = errors.New("model table: unknown entry must be premium with a nonzero multiplier")
)

// ModelEntry is one row of the model classification table.
type ModelEntry struct {
	Name       string  `json:"name" yaml:"name"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
	IsPremium  bool    `json:"isPremium" yaml:"isPremium"`
}

// ModelClass is the cost classification of a model key.
type ModelClass struct {
	Multiplier float64 `json:"multiplier"`
	IsPremium  bool    `json:"isPremium"`
}

// ModelTable is an immutable, case-insensitive lookup from canonical model
// key to its classification.
type ModelTable struct {
	entries []ModelEntry
	byName  map[string]ModelClass
}

// NewModelTable validates entries and builds the reverse lookup. Repeated
// names are tolerated only when they carry the same classification.
func NewModelTable(entries []ModelEntry) (*ModelTable, error) {
	t := &ModelTable{
		entries: make([]ModelEntry, 0, len(entries)),
		byName:  make(map[string]ModelClass, len(entries)),
	}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			continue
		}
		class := ModelClass{Multiplier: e.Multiplier, IsPremium: e.IsPremium}
		if prev, ok := t.byName[key]; ok {
			if prev != class {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateModel, key)
			}
			continue
		}
		t.byName[key] = class
		t.entries = append(t.entries, ModelEntry{Name: key, Multiplier: e.Multiplier, IsPremium: e.IsPremium})
	}

	unknown, ok := t.byName[UnknownModel]
	if !ok {
		return nil, ErrMissingUnknownModel
	}
	if unknown.Multiplier == 0 || !unknown.IsPremium {
		return nil, ErrInvalidUnknownModel
	}
	return t, nil
}

// Classify looks up a model key case-insensitively.
func (t *ModelTable) Classify(model string) (ModelClass, bool) {
	c, ok := t.byName[strings.ToLower(strings.TrimSpace(model))]
	return c, ok
}

// ClassifyOrUnknown returns the model's classification, falling back to the
// unknown entry. known reports whether the model itself was found.
func (t *ModelTable) ClassifyOrUnknown(model string) (class ModelClass, known bool) {
	if c, ok := t.Classify(model); ok {
		return c, true
	}
	return t.byName[UnknownModel], false
}

// Entries returns a copy of the table rows in declaration order.
func (t *ModelTable) Entries() []ModelEntry {
	out := make([]ModelEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *ModelTable) Len() int { return len(t.entries) }

// LoadModelTable reads a table from a YAML (.yaml, .yml) or JSON file. Both
// a bare list of entries and an object with a "models" list are accepted.
func LoadModelTable(path string) (*ModelTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model table: %w", err)
	}

	var wrapped struct {
		Models []ModelEntry `json:"models" yaml:"models"`
	}
	var list []ModelEntry

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &list); err != nil {
			if werr := yaml.Unmarshal(data, &wrapped); werr != nil {
				return nil, fmt.Errorf("parsing model table %s: %w", path, err)
			}
			list = wrapped.Models
		}
	default:
		if err := json.Unmarshal(data, &list); err != nil {
			if werr := json.Unmarshal(data, &wrapped); werr != nil {
				return nil, fmt.Errorf("parsing model table %s: %w", path, err)
			}
			list = wrapped.Models
		}
	}

	table, err := NewModelTable(list)
	if err != nil {
		return nil, fmt.Errorf("loading model table %s: %w", path, err)
	}
	return table, nil
}

// DefaultModelTable returns the built-in GitHub Copilot multiplier table.
func DefaultModelTable() *ModelTable {
	t, err := NewModelTable(defaultModelEntries)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultModelEntries = []ModelEntry{
	{Name: "default", Multiplier: 0, IsPremium: false},
	{Name: "gpt-4.1", Multiplier: 0, IsPremium: false},
	{Name: "gpt-4o", Multiplier: 0, IsPremium: false},
	{Name: "gpt-5-mini", Multiplier: 0, IsPremium: false},
	{Name: "raptor-mini", Multiplier: 0, IsPremium: false},
	{Name: "gpt-5", Multiplier: 1, IsPremium: true},
	{Name: "gpt-5-codex", Multiplier: 1, IsPremium: true},
	{Name: "gpt-5.1", Multiplier: 1, IsPremium: true},
	{Name: "gpt-5.1-codex", Multiplier: 1, IsPremium: true},
	{Name: "gpt-5.1-codex-mini", Multiplier: 0.33, IsPremium: true},
	{Name: "o3", Multiplier: 1, IsPremium: true},
	{Name: "o3-mini", Multiplier: 0.33, IsPremium: true},
	{Name: "o4-mini", Multiplier: 0.33, IsPremium: true},
	{Name: "claude-3.5-sonnet", Multiplier: 1, IsPremium: true},
	{Name: "claude-3.7-sonnet", Multiplier: 1, IsPremium: true},
	{Name: "claude-3.7-sonnet-thought", Multiplier: 1.25, IsPremium: true},
	{Name: "claude-4.0-sonnet", Multiplier: 1, IsPremium: true},
	{Name: "claude-4.5-sonnet", Multiplier: 1, IsPremium: true},
	{Name: "claude-4.5-haiku", Multiplier: 0.33, IsPremium: true},
	{Name: "claude-opus-4.0", Multiplier: 10, IsPremium: true},
	{Name: "claude-opus-4.1", Multiplier: 10, IsPremium: true},
	{Name: "claude-opus-4.5", Multiplier: 3, IsPremium: true},
	{Name: "gemini-2.0-flash", Multiplier: 0.25, IsPremium: true},
	{Name: "gemini-2.5-pro", Multiplier: 1, IsPremium: true},
	{Name: "gemini-3.0-pro", Multiplier: 1, IsPremium: true},
	{Name: "grok-code-fast-1", Multiplier: 0.25, IsPremium: true},
	{Name: UnknownModel, Multiplier: 1, IsPremium: true},
}
