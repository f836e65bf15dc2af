package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
	"github.com/janekbaraniewski/copilot-usage/internal/metrics"
)

type SummaryOptions struct {
	Filter core.DateFilter
	// Width is the chart width in columns. Zero picks 60.
	Width int
	// Charts includes the ASCII line charts.
	Charts bool
	// Limit caps the language and model tables. Zero picks 10.
	Limit int
}

// WriteSummary renders a terminal overview of b.
func WriteSummary(w io.Writer, b *metrics.Bundle, opts SummaryOptions) error {
	if opts.Width <= 0 {
		opts.Width = 60
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	var sb strings.Builder
	s := b.Stats

	title := "Copilot usage"
	if s.ReportStartDay != "" {
		title += fmt.Sprintf("  %s .. %s", s.ReportStartDay, s.ReportEndDay)
	}
	if opts.Filter != "" {
		title += "  (" + opts.Filter.Label() + ")"
	}
	sb.WriteString(titleStyle.Render(title) + "\n\n")

	kv := [][2]string{
		{"Users", fmt.Sprintf("%d  (chat %d, agent %d, completion only %d)", s.UniqueUsers, s.ChatUsers, s.AgentUsers, s.CompletionOnlyUsers)},
		{"Records", strconv.Itoa(s.TotalRecords)},
		{"Top language", topItem(s.TopLanguage)},
		{"Top IDE", topItem(s.TopIDE)},
		{"Top model", topItem(s.TopModel)},
		{"Premium units", fmt.Sprintf("%.2f PRUs  ($%.2f)", s.TotalPRUs, s.ServiceValue)},
	}
	for _, row := range kv {
		sb.WriteString(labelStyle.Render(row[0]) + valueStyle.Render(row[1]) + "\n")
	}

	if opts.Charts {
		active := lo.Map(b.EngagementData, func(d metrics.DailyEngagement, _ int) float64 { return float64(d.ActiveUsers) })
		prus := lo.Map(b.ModelUsageData, func(d metrics.DailyModelUsage, _ int) float64 { return d.TotalPRUs })

		sb.WriteString(sectionHeaderStyle.Render("Daily active users") + "\n")
		sb.WriteString(renderLineChart(active, opts.Width, 8, "active users per day") + "\n")
		sb.WriteString(sectionHeaderStyle.Render("Premium request units") + "\n")
		sb.WriteString(renderLineChart(prus, opts.Width, 8, "PRUs per day") + "\n")
		sb.WriteString(sectionHeaderStyle.Render("Model mix") + "\n")
		sb.WriteString(renderModelMixChart(b.ModelUsageData, opts.Width, 8) + "\n")
	}

	sb.WriteString(sectionHeaderStyle.Render("Models") + "\n")
	if len(b.ModelBreakdown) == 0 {
		sb.WriteString(dimStyle.Render("No model activity") + "\n")
	} else {
		header := []string{"MODEL", "VENDOR", "CATEGORY", "REQUESTS", "PRUS", "VALUE", "USERS"}
		rows := lo.Map(lo.Slice(b.ModelBreakdown, 0, opts.Limit), func(m metrics.ModelBreakdown, _ int) []string {
			return []string{
				m.Model, m.Vendor, m.Category, strconv.FormatInt(m.Requests, 10),
				fmt.Sprintf("%.2f", m.PRUs), fmt.Sprintf("$%.2f", m.ServiceValue), strconv.Itoa(m.UniqueUsers),
			}
		})
		writeTable(&sb, header, rows, func(row []string, line string) string {
			return categoryStyle(row[2]).Render(line)
		})
	}

	sb.WriteString(sectionHeaderStyle.Render("Languages") + "\n")
	if len(b.LanguageStats) == 0 {
		sb.WriteString(dimStyle.Render("No language activity") + "\n")
	} else {
		header := []string{"LANGUAGE", "GENERATIONS", "ACCEPTANCES", "USERS"}
		rows := lo.Map(lo.Slice(b.LanguageStats, 0, opts.Limit), func(l metrics.LanguageStats, _ int) []string {
			return []string{
				l.Language, strconv.FormatInt(l.TotalGenerations, 10),
				strconv.FormatInt(l.TotalAcceptances, 10), strconv.Itoa(l.UniqueUsers),
			}
		})
		writeTable(&sb, header, rows, nil)
	}

	fa := b.FeatureAdoption
	sb.WriteString(sectionHeaderStyle.Render("Feature adoption") + "\n")
	for _, row := range [][2]string{
		{"Completions", adoption(fa.CompletionUsers, fa.TotalUsers)},
		{"Chat", adoption(fa.ChatUsers, fa.TotalUsers)},
		{"Ask mode", adoption(fa.AskModeUsers, fa.TotalUsers)},
		{"Agent mode", adoption(fa.AgentModeUsers, fa.TotalUsers)},
		{"Edit mode", adoption(fa.EditModeUsers, fa.TotalUsers)},
		{"Inline chat", adoption(fa.InlineModeUsers, fa.TotalUsers)},
	} {
		sb.WriteString(labelStyle.Render(row[0]) + valueStyle.Render(row[1]) + "\n")
	}

	if d := b.LOCDrift; d.RecordsWithDrift > 0 {
		sb.WriteString("\n" + dimStyle.Render(fmt.Sprintf(
			"%d of %d records report feature-level line counts that differ from their totals",
			d.RecordsWithDrift, d.RecordsChecked)) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// maxCellWidth caps a table cell; longer values are cut with an ellipsis.
const maxCellWidth = 32

// writeTable left-aligns cells into columns. style, when set, renders a
// whole data row.
func writeTable(sb *strings.Builder, header []string, rows [][]string, style func(row []string, line string) string) {
	for _, row := range rows {
		for i, cell := range row {
			row[i] = ansi.Truncate(cell, maxCellWidth, "…")
		}
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	format := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	sb.WriteString(tableHeaderStyle.Render(format(header)) + "\n")
	for _, row := range rows {
		line := format(row)
		if style != nil {
			line = style(row, line)
		}
		sb.WriteString(line + "\n")
	}
}

func topItem(t metrics.TopItem) string {
	if t.Engagements == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s (%d)", t.Name, t.Engagements)
}

func adoption(users, total int) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%d  (%.0f%%)", users, float64(users)/float64(total)*100)
}
