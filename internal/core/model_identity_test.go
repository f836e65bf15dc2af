package core

import "testing"

func TestNormalizeDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Claude Sonnet 4", "claude-4.0-sonnet"},
		{"Claude Sonnet 4.5", "claude-4.5-sonnet"},
		{"Claude Haiku 4.5", "claude-4.5-haiku"},
		{"Claude Opus 4.1", "claude-opus-4.1"},
		{"Claude Opus 4", "claude-opus-4.0"},
		{"Gemini 2 Pro", "gemini-2.0-pro"},
		{"Gemini 2.0 Flash", "gemini-2.0-flash"},
		{"GPT-4.1", "gpt-4.1"},
		{"GPT-5 mini", "gpt-5-mini"},
		{"Grok Code Fast 1", "grok-code-fast-1"},
		{"Raptor mini", "raptor-mini"},
		{"o3", "o3"},
		{"  Claude   Sonnet  3.7  ", "claude-3.7-sonnet"},
		{"Claude Sonnet 3.7 Thinking", "claude-sonnet-3.7-thinking"},
		{"Some New Model", "some-new-model"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeDisplayName(tt.in); got != tt.want {
				t.Fatalf("NormalizeDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDisplayName_PrefixRuleWinsOverFallback(t *testing.T) {
	// GPT names keep their dotted versions untouched.
	if got := NormalizeDisplayName("GPT-5.1-Codex-Mini"); got != "gpt-5.1-codex-mini" {
		t.Fatalf("got %q, want gpt-5.1-codex-mini", got)
	}
}

func TestDetectVendor(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"claude-4.5-sonnet", "anthropic"},
		{"claude-opus-4.1", "anthropic"},
		{"gpt-4.1", "openai"},
		{"gpt-5-codex", "openai"},
		{"o3", "openai"},
		{"o4-mini", "openai"},
		{"gemini-2.5-pro", "google"},
		{"grok-code-fast-1", "xai"},
		{"raptor-mini", "github"},
		{"default", "github"},
		{"mystery", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := DetectVendor(tt.model); got != tt.want {
			t.Errorf("DetectVendor(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}
