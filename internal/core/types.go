package core

import "time"

// DayLayout is the canonical calendar-day format used for record days and series dates.
const DayLayout = "2006-01-02"

// Counters are the scalar activity totals reported at record level and
// repeated on every breakdown entry.
type Counters struct {
	UserInitiatedInteractions int64 `json:"user_initiated_interaction_count"`
	CodeGenerations           int64 `json:"code_generation_activity_count"`
	CodeAcceptances           int64 `json:"code_acceptance_activity_count"`
	LOCAdded                  int64 `json:"loc_added_sum"`
	LOCDeleted                int64 `json:"loc_deleted_sum"`
	LOCSuggestedToAdd         int64 `json:"loc_suggested_to_add_sum"`
	LOCSuggestedToDelete      int64 `json:"loc_suggested_to_delete_sum"`
}

// Add accumulates o into c.
func (c *Counters) Add(o Counters) {
	c.UserInitiatedInteractions += o.UserInitiatedInteractions
	c.CodeGenerations += o.CodeGenerations
	c.CodeAcceptances += o.CodeAcceptances
	c.LOCAdded += o.LOCAdded
	c.LOCDeleted += o.LOCDeleted
	c.LOCSuggestedToAdd += o.LOCSuggestedToAdd
	c.LOCSuggestedToDelete += o.LOCSuggestedToDelete
}

// HasLOCChange reports whether any lines were added or deleted.
func (c Counters) HasLOCChange() bool {
	return c.LOCAdded != 0 || c.LOCDeleted != 0
}

type PluginVersion struct {
	Plugin        string `json:"plugin,omitempty"`
	PluginVersion string `json:"plugin_version,omitempty"`
}

type IDETotals struct {
	IDE                    string         `json:"ide"`
	LastKnownPluginVersion *PluginVersion `json:"last_known_plugin_version,omitempty"`
	Counters
}

type FeatureTotals struct {
	Feature string `json:"feature"`
	Counters
}

type LanguageFeatureTotals struct {
	Language string `json:"language"`
	Feature  string `json:"feature"`
	Counters
}

type ModelFeatureTotals struct {
	Model   string `json:"model"`
	Feature string `json:"feature"`
	Counters
}

// UsageRecord is one user's activity for one calendar day.
//
// Breakdown totals are reported independently by the feed and are not
// guaranteed to sum to the record-level counters.
type UsageRecord struct {
	Day            string    `json:"day"`
	Date           time.Time `json:"-"`
	UserID         int64     `json:"user_id"`
	UserLogin      string    `json:"user_login"`
	ReportStartDay string    `json:"report_start_day,omitempty"`
	ReportEndDay   string    `json:"report_end_day,omitempty"`

	Counters

	UsedChat  bool `json:"used_chat"`
	UsedAgent bool `json:"used_agent"`

	TotalsByIDE             []IDETotals             `json:"totals_by_ide,omitempty"`
	TotalsByFeature         []FeatureTotals         `json:"totals_by_feature,omitempty"`
	TotalsByLanguageFeature []LanguageFeatureTotals `json:"totals_by_language_feature,omitempty"`
	TotalsByModelFeature    []ModelFeatureTotals    `json:"totals_by_model_feature,omitempty"`
}

// ParseDay parses a calendar day in any of the layouts the feed has been
// observed to use. The result is truncated to midnight UTC.
func ParseDay(s string) (time.Time, bool) {
	for _, layout := range []string{DayLayout, time.RFC3339, time.RFC3339Nano, "2006/01/02", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
