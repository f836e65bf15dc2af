// Package report renders an aggregation bundle for people and spreadsheets.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/janekbaraniewski/copilot-usage/internal/metrics"
)

// Table selects which flat view of the bundle a CSV export contains.
type Table string

const (
	TableUsers     Table = "users"
	TableDaily     Table = "daily"
	TableLanguages Table = "languages"
	TableModels    Table = "models"
)

var Tables = []Table{TableUsers, TableDaily, TableLanguages, TableModels}

func ParseTable(s string) (Table, error) {
	t := Table(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tables {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown CSV table %q (want one of users, daily, languages, models)", s)
}

// WriteCSV writes one table of b with a header row.
func WriteCSV(w io.Writer, b *metrics.Bundle, table Table) error {
	var rows [][]string
	switch table {
	case TableUsers:
		rows = userRows(b)
	case TableDaily:
		rows = dailyRows(b)
	case TableLanguages:
		rows = languageRows(b)
	case TableModels:
		rows = modelRows(b)
	default:
		return fmt.Errorf("unknown CSV table %q", table)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s csv: %w", table, err)
	}
	return nil
}

// WriteJSON writes the whole bundle as indented JSON.
func WriteJSON(w io.Writer, b *metrics.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return nil
}

func userRows(b *metrics.Bundle) [][]string {
	rows := [][]string{{
		"user_id", "user_login", "interactions", "code_generations", "code_acceptances",
		"loc_added", "loc_deleted", "loc_suggested_to_add", "loc_suggested_to_delete",
		"days_active", "used_chat", "used_agent",
	}}
	for _, u := range b.UserSummaries {
		rows = append(rows, []string{
			i64(u.UserID), u.UserLogin, i64(u.UserInitiatedInteractions), i64(u.CodeGenerations),
			i64(u.CodeAcceptances), i64(u.LOCAdded), i64(u.LOCDeleted), i64(u.LOCSuggestedToAdd),
			i64(u.LOCSuggestedToDelete), strconv.Itoa(u.DaysActive),
			strconv.FormatBool(u.UsedChat), strconv.FormatBool(u.UsedAgent),
		})
	}
	return rows
}

// dailyRows joins the per-day series; they all share one row per day in
// the same order.
func dailyRows(b *metrics.Bundle) [][]string {
	rows := [][]string{{
		"date", "active_users", "engagement_pct",
		"ask_requests", "agent_requests", "edit_requests", "inline_requests",
		"pru_models", "standard_models", "unknown_models", "total_prus", "service_value",
		"agent_mode_requests", "agent_users", "loc_added", "loc_deleted",
	}}
	for i, e := range b.EngagementData {
		chat := b.ChatRequestsData[i]
		model := b.ModelUsageData[i]
		agent := b.AgentHeatmapData[i]
		impact := b.JoinedImpactData[i]
		rows = append(rows, []string{
			e.Date, strconv.Itoa(e.ActiveUsers), f64(e.EngagementPercentage),
			i64(chat.AskModeRequests), i64(chat.AgentModeRequests), i64(chat.EditModeRequests), i64(chat.InlineModeRequests),
			i64(model.PRUModels), i64(model.StandardModels), i64(model.UnknownModels), f64(model.TotalPRUs), f64(model.ServiceValue),
			i64(agent.AgentRequests), strconv.Itoa(agent.UniqueUsers), i64(impact.LOCAdded), i64(impact.LOCDeleted),
		})
	}
	return rows
}

func languageRows(b *metrics.Bundle) [][]string {
	rows := [][]string{{
		"language", "generations", "acceptances", "engagements", "loc_added", "loc_deleted", "unique_users",
	}}
	for _, l := range b.LanguageStats {
		rows = append(rows, []string{
			l.Language, i64(l.TotalGenerations), i64(l.TotalAcceptances), i64(l.TotalEngagements),
			i64(l.LOCAdded), i64(l.LOCDeleted), strconv.Itoa(l.UniqueUsers),
		})
	}
	return rows
}

func modelRows(b *metrics.Bundle) [][]string {
	rows := [][]string{{
		"model", "vendor", "category", "requests", "multiplier", "prus", "service_value", "unique_users",
	}}
	for _, m := range b.ModelBreakdown {
		rows = append(rows, []string{
			m.Model, m.Vendor, m.Category, i64(m.Requests), f64(m.Multiplier),
			f64(m.PRUs), f64(m.ServiceValue), strconv.Itoa(m.UniqueUsers),
		})
	}
	return rows
}

func i64(v int64) string { return strconv.FormatInt(v, 10) }

func f64(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
