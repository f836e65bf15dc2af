package core

import (
	"regexp"
	"strings"
)

var (
	reClaudeDisplay = regexp.MustCompile(`(?i)^claude\s+(haiku|sonnet|opus)\s+(\d+(?:\.\d+)?)$`)
	reGeminiDisplay = regexp.MustCompile(`(?i)^gemini\s+(\d+(?:\.\d+)?)\s+(pro|flash)$`)
	reWhitespace    = regexp.MustCompile(`\s+`)
)

// displayPrefixFamilies are vendors whose display names already match the
// canonical key apart from case and spacing.
var displayPrefixFamilies = []string{"gpt-", "grok ", "raptor "}

// NormalizeDisplayName maps a pricing-page display name such as
// "Claude Sonnet 4.5" or "GPT-4.1" onto the canonical key used by the model
// table. Unmatched names fall through to a generic lowercase/dash rewrite.
func NormalizeDisplayName(displayName string) string {
	name := strings.TrimSpace(reWhitespace.ReplaceAllString(displayName, " "))
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)

	for _, prefix := range displayPrefixFamilies {
		if strings.HasPrefix(lower, prefix) {
			return dashed(lower)
		}
	}

	if m := reClaudeDisplay.FindStringSubmatch(name); len(m) == 3 {
		family := strings.ToLower(m[1])
		version := padVersion(m[2])
		if family == "opus" {
			return "claude-opus-" + version
		}
		return "claude-" + version + "-" + family
	}

	if m := reGeminiDisplay.FindStringSubmatch(name); len(m) == 3 {
		return "gemini-" + padVersion(m[1]) + "-" + strings.ToLower(m[2])
	}

	return dashed(lower)
}

// padVersion forces a minor component onto bare major versions ("4" -> "4.0").
func padVersion(v string) string {
	if isAllDigits(v) {
		return v + ".0"
	}
	return v
}

func dashed(s string) string {
	return strings.Join(strings.Fields(s), "-")
}

// DetectVendor returns a best-effort vendor for a model key, based on the
// family tokens it contains.
func DetectVendor(model string) string {
	tokens := splitModelTokens(model)
	switch {
	case containsToken(tokens, "claude"):
		return "anthropic"
	case containsToken(tokens, "gpt"), containsToken(tokens, "codex"), isOpenAIReasoning(tokens):
		return "openai"
	case containsToken(tokens, "gemini"):
		return "google"
	case containsToken(tokens, "grok"):
		return "xai"
	case containsToken(tokens, "raptor"), containsToken(tokens, "default"):
		return "github"
	default:
		return "unknown"
	}
}

// isOpenAIReasoning matches the o-series names (o1, o3, o4-mini).
func isOpenAIReasoning(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	first := tokens[0]
	return len(first) >= 2 && first[0] == 'o' && isAllDigits(first[1:])
}

func normalizeModelToken(raw string) string {
	if raw == "" {
		return "unknown"
	}
	var b strings.Builder
	b.Grow(len(raw))
	lastDash := false
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == '.':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "unknown"
	}
	return out
}

func splitModelTokens(model string) []string {
	parts := strings.Split(normalizeModelToken(model), "-")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsToken(tokens []string, target string) bool {
	for _, tok := range tokens {
		if tok == target {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
