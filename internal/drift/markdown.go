package drift

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteMarkdown renders the result as a review-ready Markdown document.
func (r Result) WriteMarkdown(w io.Writer) error {
	var b strings.Builder

	b.WriteString("# Model multiplier drift report\n\n")
	fmt.Fprintf(&b, "Checked %d paid models (%d zero-cost entries skipped).\n\n", r.Checked, r.Skipped)

	b.WriteString("## Missing premium models\n\n")
	if len(r.Missing) == 0 {
		b.WriteString("None.\n\n")
	} else {
		b.WriteString("| Display name | Key | Expected multiplier |\n")
		b.WriteString("|---|---|---|\n")
		for _, f := range r.Missing {
			fmt.Fprintf(&b, "| %s | `%s` | %s |\n", escapeCell(f.DisplayName), f.Key, formatMultiplier(f.Expected))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Multiplier mismatches\n\n")
	if len(r.Mismatched) == 0 {
		b.WriteString("None.\n\n")
	} else {
		b.WriteString("| Display name | Key | Expected | Table |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, f := range r.Mismatched {
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n",
				escapeCell(f.DisplayName), f.Key, formatMultiplier(f.Expected), formatMultiplier(f.Actual))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Next steps\n\n")
	if !r.HasDiscrepancies() {
		b.WriteString("The classification table matches the extracted pricing. No action needed.\n")
	} else {
		if len(r.Missing) > 0 {
			b.WriteString("- Add the missing models to the classification table with `isPremium: true` and the expected multiplier.\n")
		}
		if len(r.Mismatched) > 0 {
			b.WriteString("- Update the multipliers of the mismatched models in the classification table.\n")
		}
		b.WriteString("- Re-run `copilot-usage drift` to confirm the table is in sync.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatMultiplier(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
