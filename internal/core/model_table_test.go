package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultModelTable(t *testing.T) {
	table := DefaultModelTable()

	class, ok := table.Classify("O3")
	if !ok {
		t.Fatal("expected o3 to be classified")
	}
	if class.Multiplier != 1 || !class.IsPremium {
		t.Fatalf("o3 = %+v, want multiplier 1 premium", class)
	}

	unknown, known := table.ClassifyOrUnknown("not-a-model")
	if known {
		t.Fatal("expected fallback to unknown")
	}
	if unknown.Multiplier == 0 || !unknown.IsPremium {
		t.Fatalf("unknown = %+v, want nonzero premium", unknown)
	}

	std, _ := table.Classify("gpt-4.1")
	if std.IsPremium || std.Multiplier != 0 {
		t.Fatalf("gpt-4.1 = %+v, want standard", std)
	}
}

func TestDefaultModelTable_UniqueUnknown(t *testing.T) {
	count := 0
	for _, e := range DefaultModelTable().Entries() {
		if e.Name == UnknownModel {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("unknown entries = %d, want 1", count)
	}
}

func TestNewModelTable_Validation(t *testing.T) {
	unknown := ModelEntry{Name: "unknown", Multiplier: 1, IsPremium: true}

	tests := []struct {
		name    string
		entries []ModelEntry
		wantErr error
	}{
		{"missing unknown", []ModelEntry{{Name: "o3", Multiplier: 1, IsPremium: true}}, ErrMissingUnknownModel},
		{"free unknown", []ModelEntry{{Name: "Unknown", Multiplier: 0, IsPremium: true}}, ErrInvalidUnknownModel},
		{"standard unknown", []ModelEntry{{Name: "unknown", Multiplier: 1}}, ErrInvalidUnknownModel},
		{"conflict", []ModelEntry{unknown, {Name: "o3", Multiplier: 1}, {Name: "O3", Multiplier: 2}}, ErrDuplicateModel},
		{"consistent duplicate", []ModelEntry{unknown, {Name: "o3", Multiplier: 1}, {Name: "O3 ", Multiplier: 1}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewModelTable(tt.entries)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if table.Len() != 2 {
				t.Fatalf("len = %d, want 2", table.Len())
			}
		})
	}
}

func TestLoadModelTable(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "models.yaml")
	yamlContent := `
- name: o3
  multiplier: 1
  isPremium: true
- name: unknown
  multiplier: 1
  isPremium: true
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}
	table, err := LoadModelTable(yamlPath)
	if err != nil {
		t.Fatalf("LoadModelTable(yaml) error: %v", err)
	}
	if _, ok := table.Classify("o3"); !ok {
		t.Fatal("o3 missing from yaml table")
	}

	jsonPath := filepath.Join(dir, "models.json")
	jsonContent := `{"models":[{"name":"gpt-5","multiplier":1,"isPremium":true},{"name":"unknown","multiplier":1,"isPremium":true}]}`
	if err := os.WriteFile(jsonPath, []byte(jsonContent), 0o644); err != nil {
		t.Fatalf("writing json: %v", err)
	}
	table, err = LoadModelTable(jsonPath)
	if err != nil {
		t.Fatalf("LoadModelTable(json) error: %v", err)
	}
	if c, ok := table.Classify("GPT-5"); !ok || c.Multiplier != 1 {
		t.Fatalf("gpt-5 = %+v, %v", c, ok)
	}

	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`[{"name":"o3","multiplier":1}]`), 0o644); err != nil {
		t.Fatalf("writing bad json: %v", err)
	}
	if _, err := LoadModelTable(badPath); !errors.Is(err, ErrMissingUnknownModel) {
		t.Fatalf("err = %v, want ErrMissingUnknownModel", err)
	}
}
