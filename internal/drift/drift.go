// Package drift compares an externally extracted price list against the
// model classification table and reports what is missing or out of date.
package drift

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
	"github.com/janekbaraniewski/copilot-usage/internal/parsers"
)

// tolerance below which two multipliers are considered equal.
const tolerance = 1e-9

// Entry is one model as listed by the external pricing source.
type Entry struct {
	DisplayName    string   `json:"displayName"`
	PaidMultiplier *float64 `json:"paidMultiplier"`
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		DisplayName    json.RawMessage `json:"displayName"`
		PaidMultiplier json.RawMessage `json:"paidMultiplier"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.DisplayName = parsers.String(raw.DisplayName)
	e.PaidMultiplier = parsers.ParseFloat(parsers.String(raw.PaidMultiplier))
	return nil
}

// Finding is a single discrepancy between an entry and the table.
type Finding struct {
	DisplayName string
	Key         string
	Expected    float64
	// Actual is zero for missing models.
	Actual float64
}

type Result struct {
	Checked    int
	Skipped    int
	Missing    []Finding
	Mismatched []Finding
}

func (r Result) HasDiscrepancies() bool {
	return len(r.Missing) > 0 || len(r.Mismatched) > 0
}

// LoadEntries reads a JSON array of entries, or an object with a "models" array.
func LoadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading extracted models: %w", err)
	}
	entries, err := DecodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

func DecodeEntries(data []byte) ([]Entry, error) {
	data = bytes.TrimSpace(data)
	var entries []Entry
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Models []Entry `json:"models"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Models, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Check normalizes every entry with a nonzero expected multiplier and looks it
// up in table. Zero-cost models may be absent from the table and are skipped.
func Check(entries []Entry, table *core.ModelTable) Result {
	if table == nil {
		table = core.DefaultModelTable()
	}
	var r Result
	for _, e := range entries {
		if e.PaidMultiplier == nil || *e.PaidMultiplier == 0 {
			r.Skipped++
			continue
		}
		r.Checked++
		expected := *e.PaidMultiplier
		key := core.NormalizeDisplayName(e.DisplayName)
		class, ok := table.Classify(key)
		switch {
		case !ok:
			r.Missing = append(r.Missing, Finding{DisplayName: e.DisplayName, Key: key, Expected: expected})
		case math.Abs(expected-class.Multiplier) >= tolerance:
			r.Mismatched = append(r.Mismatched, Finding{DisplayName: e.DisplayName, Key: key, Expected: expected, Actual: class.Multiplier})
		}
	}
	sortFindings(r.Missing)
	sortFindings(r.Mismatched)
	return r
}

func sortFindings(f []Finding) {
	sort.SliceStable(f, func(i, j int) bool { return f[i].Key < f[j].Key })
}
