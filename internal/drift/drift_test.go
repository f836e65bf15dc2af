package drift

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
)

func mult(v float64) *float64 { return &v }

func TestCheck(t *testing.T) {
	entries := []Entry{
		{DisplayName: "Claude Sonnet 4", PaidMultiplier: mult(1)},
		{DisplayName: "Claude Opus 4.1", PaidMultiplier: mult(10)},
		{DisplayName: "Gemini 2.5 Pro", PaidMultiplier: mult(1.5)},
		{DisplayName: "Brand New Model", PaidMultiplier: mult(2)},
		{DisplayName: "GPT-4.1", PaidMultiplier: mult(0)},
		{DisplayName: "Unpriced"},
	}

	r := Check(entries, core.DefaultModelTable())

	if r.Checked != 4 || r.Skipped != 2 {
		t.Fatalf("checked/skipped = %d/%d, want 4/2", r.Checked, r.Skipped)
	}
	wantMissing := []Finding{{DisplayName: "Brand New Model", Key: "brand-new-model", Expected: 2}}
	if diff := cmp.Diff(wantMissing, r.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	wantMismatched := []Finding{{DisplayName: "Gemini 2.5 Pro", Key: "gemini-2.5-pro", Expected: 1.5, Actual: 1}}
	if diff := cmp.Diff(wantMismatched, r.Mismatched); diff != "" {
		t.Fatalf("mismatched mismatch (-want +got):\n%s", diff)
	}
	if !r.HasDiscrepancies() {
		t.Fatal("HasDiscrepancies() = false, want true")
	}
}

func TestCheck_ToleratesFloatNoise(t *testing.T) {
	r := Check([]Entry{{DisplayName: "o3-mini", PaidMultiplier: mult(0.33 + 1e-12)}}, nil)
	if r.HasDiscrepancies() {
		t.Fatalf("unexpected discrepancies: %+v", r)
	}
}

func TestDecodeEntries(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "array", in: `[{"displayName":"o3","paidMultiplier":1}]`, want: 1},
		{name: "wrapped", in: `{"models":[{"displayName":"o3","paidMultiplier":"1"},{"displayName":"x"}]}`, want: 2},
		{name: "empty array", in: `[]`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEntries([]byte(tt.in))
			if err != nil {
				t.Fatalf("DecodeEntries() error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
		})
	}

	got, _ := DecodeEntries([]byte(`[{"displayName":"o3","paidMultiplier":"0.33"}]`))
	if got[0].PaidMultiplier == nil || *got[0].PaidMultiplier != 0.33 {
		t.Fatalf("string multiplier not coerced: %+v", got[0])
	}

	if _, err := DecodeEntries([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	if err := os.WriteFile(path, []byte(`[{"displayName":"Claude Opus 4","paidMultiplier":10}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("LoadEntries() error: %v", err)
	}
	if r := Check(entries, nil); r.HasDiscrepancies() {
		t.Fatalf("unexpected discrepancies: %+v", r)
	}

	if _, err := LoadEntries(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteMarkdown(t *testing.T) {
	r := Check([]Entry{
		{DisplayName: "New | Model", PaidMultiplier: mult(2)},
		{DisplayName: "Claude Opus 4.5", PaidMultiplier: mult(5)},
	}, nil)

	var b strings.Builder
	if err := r.WriteMarkdown(&b); err != nil {
		t.Fatalf("WriteMarkdown() error: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"## Missing premium models",
		"## Multiplier mismatches",
		"## Next steps",
		`New \| Model`,
		"| Claude Opus 4.5 | `claude-opus-4.5` | 5 | 3 |",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMarkdown_Clean(t *testing.T) {
	var b strings.Builder
	if err := (Result{}).WriteMarkdown(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "No action needed") {
		t.Fatalf("clean report = %q", b.String())
	}
}
