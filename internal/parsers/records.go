package parsers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
)

// Diagnostic describes an input line that was dropped.
type Diagnostic struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ParseResult struct {
	Records     []core.UsageRecord
	Diagnostics []Diagnostic
	Lines       int
}

// ParseRecords reads newline-delimited JSON usage records. Lines that fail to
// decode or validate are reported as diagnostics and never affect other
// lines; the returned error is reserved for read failures.
func ParseRecords(r io.Reader) (ParseResult, error) {
	var result ParseResult
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			result.add(lineNo, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("reading records at line %d: %w", lineNo+1, err)
		}
	}
	result.Lines = lineNo
	return result, nil
}

// ParseLines parses pre-split lines. Line numbers are 1-based indexes into lines.
func ParseLines(lines []string) ParseResult {
	var result ParseResult
	for i, line := range lines {
		result.add(i+1, []byte(line))
	}
	result.Lines = len(lines)
	return result
}

func (r *ParseResult) add(lineNo int, line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}
	rec, err := ParseRecord(line)
	if err != nil {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{Line: lineNo, Reason: err.Error()})
		return
	}
	r.Records = append(r.Records, rec)
}

// ParseRecord decodes and validates a single JSON object.
func ParseRecord(line []byte) (core.UsageRecord, error) {
	if !json.Valid(line) {
		return core.UsageRecord{}, errors.New("invalid JSON")
	}
	fields, ok := object(line)
	if !ok {
		return core.UsageRecord{}, errors.New("not a JSON object")
	}

	rawDay, ok := fields["day"]
	if !ok {
		return core.UsageRecord{}, errors.New("missing day")
	}
	var day string
	if err := json.Unmarshal(rawDay, &day); err != nil || strings.TrimSpace(day) == "" {
		return core.UsageRecord{}, errors.New("day is not a non-empty string")
	}
	date, ok := core.ParseDay(strings.TrimSpace(day))
	if !ok {
		return core.UsageRecord{}, fmt.Errorf("day %q is not a calendar date", day)
	}

	rawUser, ok := fields["user_id"]
	if !ok {
		return core.UsageRecord{}, errors.New("missing user_id")
	}
	userID, ok := identity(rawUser)
	if !ok {
		return core.UsageRecord{}, errors.New("user_id is not a positive integer")
	}

	rec := core.UsageRecord{
		Day:            date.Format(core.DayLayout),
		Date:           date,
		UserID:         userID,
		UserLogin:      strings.TrimSpace(String(fields["user_login"])),
		ReportStartDay: reportDay(fields["report_start_day"]),
		ReportEndDay:   reportDay(fields["report_end_day"]),
		Counters:       counters(fields),
		UsedChat:       Flag(fields["used_chat"]),
		UsedAgent:      Flag(fields["used_agent"]),
	}

	for _, f := range objects(fields["totals_by_ide"]) {
		rec.TotalsByIDE = append(rec.TotalsByIDE, core.IDETotals{
			IDE:                    strings.TrimSpace(String(f["ide"])),
			LastKnownPluginVersion: pluginVersion(f["last_known_plugin_version"]),
			Counters:               counters(f),
		})
	}
	for _, f := range objects(fields["totals_by_feature"]) {
		rec.TotalsByFeature = append(rec.TotalsByFeature, core.FeatureTotals{
			Feature:  strings.TrimSpace(String(f["feature"])),
			Counters: counters(f),
		})
	}
	for _, f := range objects(fields["totals_by_language_feature"]) {
		rec.TotalsByLanguageFeature = append(rec.TotalsByLanguageFeature, core.LanguageFeatureTotals{
			Language: strings.TrimSpace(String(f["language"])),
			Feature:  strings.TrimSpace(String(f["feature"])),
			Counters: counters(f),
		})
	}
	for _, f := range objects(fields["totals_by_model_feature"]) {
		rec.TotalsByModelFeature = append(rec.TotalsByModelFeature, core.ModelFeatureTotals{
			Model:    strings.TrimSpace(String(f["model"])),
			Feature:  strings.TrimSpace(String(f["feature"])),
			Counters: counters(f),
		})
	}
	return rec, nil
}

func counters(f map[string]json.RawMessage) core.Counters {
	return core.Counters{
		UserInitiatedInteractions: Count(f["user_initiated_interaction_count"]),
		CodeGenerations:           Count(f["code_generation_activity_count"]),
		CodeAcceptances:           Count(f["code_acceptance_activity_count"]),
		LOCAdded:                  Count(f["loc_added_sum"]),
		LOCDeleted:                Count(f["loc_deleted_sum"]),
		LOCSuggestedToAdd:         Count(f["loc_suggested_to_add_sum"]),
		LOCSuggestedToDelete:      Count(f["loc_suggested_to_delete_sum"]),
	}
}

func identity(raw json.RawMessage) (int64, bool) {
	f := number(raw)
	if f == nil {
		return 0, false
	}
	v := *f
	if v <= 0 || v != math.Trunc(v) || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// reportDay canonicalizes report range days, keeping unparseable values verbatim.
func reportDay(raw json.RawMessage) string {
	s := strings.TrimSpace(String(raw))
	if d, ok := core.ParseDay(s); ok {
		return d.Format(core.DayLayout)
	}
	return s
}

func pluginVersion(raw json.RawMessage) *core.PluginVersion {
	if len(raw) == 0 {
		return nil
	}
	if fields, ok := object(raw); ok {
		pv := &core.PluginVersion{
			Plugin:        strings.TrimSpace(String(fields["plugin"])),
			PluginVersion: strings.TrimSpace(String(fields["plugin_version"])),
		}
		if pv.Plugin == "" && pv.PluginVersion == "" {
			return nil
		}
		return pv
	}
	if s := strings.TrimSpace(String(raw)); s != "" {
		return &core.PluginVersion{PluginVersion: s}
	}
	return nil
}
