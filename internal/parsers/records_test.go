package parsers

import (
	"strings"
	"testing"
)

const validLine = `{"day":"2024-01-01","user_id":1,"user_login":"octocat","report_start_day":"2024-01-01","report_end_day":"2024-01-28",` +
	`"user_initiated_interaction_count":5,"code_generation_activity_count":4,"code_acceptance_activity_count":2,` +
	`"loc_added_sum":10,"loc_deleted_sum":3,"used_chat":true,"used_agent":false,` +
	`"totals_by_ide":[{"ide":"vscode","last_known_plugin_version":{"plugin":"copilot-chat","plugin_version":"0.22.4"}}],` +
	`"totals_by_feature":[{"feature":"chat_panel_agent_mode","user_initiated_interaction_count":3,"loc_added_sum":8}],` +
	`"totals_by_language_feature":[{"language":"go","feature":"code_completion","code_generation_activity_count":4}],` +
	`"totals_by_model_feature":[{"model":"o3","feature":"chat_panel_agent_mode","user_initiated_interaction_count":3}]}`

func TestParseRecord_Valid(t *testing.T) {
	rec, err := ParseRecord([]byte(validLine))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}
	if rec.Day != "2024-01-01" || rec.UserID != 1 || rec.UserLogin != "octocat" {
		t.Fatalf("identity = %q/%d/%q", rec.Day, rec.UserID, rec.UserLogin)
	}
	if rec.UserInitiatedInteractions != 5 || rec.LOCAdded != 10 || rec.LOCDeleted != 3 {
		t.Fatalf("counters = %+v", rec.Counters)
	}
	if !rec.UsedChat || rec.UsedAgent {
		t.Fatalf("flags = chat %v agent %v", rec.UsedChat, rec.UsedAgent)
	}
	if rec.ReportEndDay != "2024-01-28" {
		t.Fatalf("report_end_day = %q", rec.ReportEndDay)
	}
	if len(rec.TotalsByIDE) != 1 || rec.TotalsByIDE[0].LastKnownPluginVersion == nil ||
		rec.TotalsByIDE[0].LastKnownPluginVersion.PluginVersion != "0.22.4" {
		t.Fatalf("totals_by_ide = %+v", rec.TotalsByIDE)
	}
	if len(rec.TotalsByFeature) != 1 || rec.TotalsByFeature[0].UserInitiatedInteractions != 3 {
		t.Fatalf("totals_by_feature = %+v", rec.TotalsByFeature)
	}
	if len(rec.TotalsByLanguageFeature) != 1 || rec.TotalsByLanguageFeature[0].Language != "go" {
		t.Fatalf("totals_by_language_feature = %+v", rec.TotalsByLanguageFeature)
	}
	if len(rec.TotalsByModelFeature) != 1 || rec.TotalsByModelFeature[0].Model != "o3" {
		t.Fatalf("totals_by_model_feature = %+v", rec.TotalsByModelFeature)
	}
}

func TestParseRecord_CoercesBadNumbers(t *testing.T) {
	line := `{"day":"2024-01-01","user_id":"9","loc_added_sum":-5,"loc_deleted_sum":"many",` +
		`"code_generation_activity_count":"12","used_chat":"nope"}`
	rec, err := ParseRecord([]byte(line))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}
	if rec.UserID != 9 {
		t.Fatalf("user_id = %d, want 9", rec.UserID)
	}
	if rec.LOCAdded != 0 || rec.LOCDeleted != 0 {
		t.Fatalf("loc = %d/%d, want 0/0", rec.LOCAdded, rec.LOCDeleted)
	}
	if rec.CodeGenerations != 12 {
		t.Fatalf("generations = %d, want 12", rec.CodeGenerations)
	}
	if rec.UsedChat {
		t.Fatal("used_chat should default to false")
	}
}

func TestParseRecord_SkipsMalformedBreakdownElements(t *testing.T) {
	line := `{"day":"2024-01-01","user_id":1,"totals_by_feature":[42,"x",{"feature":"code_completion","code_generation_activity_count":2}],` +
		`"totals_by_model_feature":"oops"}`
	rec, err := ParseRecord([]byte(line))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}
	if len(rec.TotalsByFeature) != 1 || rec.TotalsByFeature[0].CodeGenerations != 2 {
		t.Fatalf("totals_by_feature = %+v", rec.TotalsByFeature)
	}
	if rec.TotalsByModelFeature != nil {
		t.Fatalf("totals_by_model_feature = %+v, want nil", rec.TotalsByModelFeature)
	}
}

func TestParseRecord_Rejections(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"syntax", `{"day":`, "invalid JSON"},
		{"array", `[1,2]`, "not a JSON object"},
		{"missing day", `{"user_id":1}`, "missing day"},
		{"numeric day", `{"day":20240101,"user_id":1}`, "day is not a non-empty string"},
		{"bad day", `{"day":"soon","user_id":1}`, "not a calendar date"},
		{"missing user", `{"day":"2024-01-01"}`, "missing user_id"},
		{"fractional user", `{"day":"2024-01-01","user_id":1.5}`, "user_id is not a positive integer"},
		{"negative user", `{"day":"2024-01-01","user_id":-1}`, "user_id is not a positive integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord([]byte(tt.line))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestParseRecords_BadLinesDoNotAffectOthers(t *testing.T) {
	input := strings.Join([]string{
		validLine,
		`not json`,
		``,
		`{"user_id":2}`,
		`{"day":"2024-01-02","user_id":2}`,
	}, "\n")

	result, err := ParseRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRecords() error: %v", err)
	}
	if result.Lines != 5 {
		t.Fatalf("lines = %d, want 5", result.Lines)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	if len(result.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %+v, want 2", result.Diagnostics)
	}
	if result.Diagnostics[0].Line != 2 || result.Diagnostics[1].Line != 4 {
		t.Fatalf("diagnostic lines = %d,%d, want 2,4", result.Diagnostics[0].Line, result.Diagnostics[1].Line)
	}
	if result.Records[1].UserID != 2 || result.Records[1].Day != "2024-01-02" {
		t.Fatalf("second record = %+v", result.Records[1])
	}
}

func TestParseLines(t *testing.T) {
	result := ParseLines([]string{`{"day":"2024/01/05","user_id":3}`, `{}`})
	if len(result.Records) != 1 || result.Records[0].Day != "2024-01-05" {
		t.Fatalf("records = %+v", result.Records)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Line != 2 {
		t.Fatalf("diagnostics = %+v", result.Diagnostics)
	}
}

func TestParseRecord_PluginVersionString(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"day":"2024-01-01","user_id":1,"totals_by_ide":[{"ide":"jetbrains","last_known_plugin_version":"1.5.2"}]}`))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}
	pv := rec.TotalsByIDE[0].LastKnownPluginVersion
	if pv == nil || pv.PluginVersion != "1.5.2" {
		t.Fatalf("plugin version = %+v", pv)
	}
}
