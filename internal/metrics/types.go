package metrics

// TopItem names the leading language, IDE or model and the metric it won on.
type TopItem struct {
	Name        string `json:"name"`
	Engagements int64  `json:"engagements"`
}

var noTopItem = TopItem{Name: "N/A"}

// Stats holds the headline numbers of a report.
type Stats struct {
	UniqueUsers         int     `json:"uniqueUsers"`
	ChatUsers           int     `json:"chatUsers"`
	AgentUsers          int     `json:"agentUsers"`
	CompletionOnlyUsers int     `json:"completionOnlyUsers"`
	TopLanguage         TopItem `json:"topLanguage"`
	TopIDE              TopItem `json:"topIde"`
	TopModel            TopItem `json:"topModel"`
	TotalRecords        int     `json:"totalRecords"`
	// TotalPRUs and ServiceValue are summed unrounded and rounded once.
	TotalPRUs           float64 `json:"totalPRUs"`
	ServiceValue        float64 `json:"serviceValue"`
	ReportStartDay      string  `json:"reportStartDay"`
	ReportEndDay        string  `json:"reportEndDay"`
}

// UserSummary totals one user's activity across the report window.
type UserSummary struct {
	UserID                    int64  `json:"user_id"`
	UserLogin                 string `json:"user_login"`
	UserInitiatedInteractions int64  `json:"total_user_initiated_interaction_count"`
	CodeGenerations           int64  `json:"total_code_generation_activity_count"`
	CodeAcceptances           int64  `json:"total_code_acceptance_activity_count"`
	LOCAdded                  int64  `json:"total_loc_added_sum"`
	LOCDeleted                int64  `json:"total_loc_deleted_sum"`
	LOCSuggestedToAdd         int64  `json:"total_loc_suggested_to_add_sum"`
	LOCSuggestedToDelete      int64  `json:"total_loc_suggested_to_delete_sum"`
	DaysActive                int    `json:"days_active"`
	UsedChat                  bool   `json:"used_chat"`
	UsedAgent                 bool   `json:"used_agent"`
}

// DailyEngagement is the share of known users active on a day.
type DailyEngagement struct {
	Date                 string  `json:"date"`
	ActiveUsers          int     `json:"activeUsers"`
	TotalUsers           int     `json:"totalUsers"`
	EngagementPercentage float64 `json:"engagementPercentage"`
}

// DailyChatUsers counts users per chat mode on a day.
type DailyChatUsers struct {
	Date            string `json:"date"`
	AskModeUsers    int    `json:"askModeUsers"`
	AgentModeUsers  int    `json:"agentModeUsers"`
	EditModeUsers   int    `json:"editModeUsers"`
	InlineModeUsers int    `json:"inlineModeUsers"`
}

// DailyChatRequests counts requests per chat mode on a day.
type DailyChatRequests struct {
	Date               string `json:"date"`
	AskModeRequests    int64  `json:"askModeRequests"`
	AgentModeRequests  int64  `json:"agentModeRequests"`
	EditModeRequests   int64  `json:"editModeRequests"`
	InlineModeRequests int64  `json:"inlineModeRequests"`
}

// DailyModelUsage splits a day's model interactions into PRU-bearing,
// standard and unknown buckets.
type DailyModelUsage struct {
	Date           string  `json:"date"`
	PRUModels      int64   `json:"pruModels"`
	StandardModels int64   `json:"standardModels"`
	UnknownModels  int64   `json:"unknownModels"`
	TotalPRUs      float64 `json:"totalPRUs"`
	ServiceValue   float64 `json:"serviceValue"`
}

// ModelPRUUsage is one model's premium usage on a day.
type ModelPRUUsage struct {
	Model      string  `json:"model"`
	Requests   int64   `json:"requests"`
	PRUs       float64 `json:"prus"`
	Multiplier float64 `json:"multiplier"`
	IsPremium  bool    `json:"isPremium"`
}

// DailyPRUAnalysis splits a day's requests into premium and standard.
type DailyPRUAnalysis struct {
	Date             string          `json:"date"`
	TotalRequests    int64           `json:"totalRequests"`
	PremiumRequests  int64           `json:"premiumRequests"`
	StandardRequests int64           `json:"standardRequests"`
	TotalPRUs        float64         `json:"totalPRUs"`
	ServiceValue     float64         `json:"serviceValue"`
	Models           []ModelPRUUsage `json:"models"`
}

// DailyAgentActivity is one cell of the agent-mode heatmap. Intensity is a
// 0-4 bucket relative to the busiest day in the series.
type DailyAgentActivity struct {
	Date          string  `json:"date"`
	AgentRequests int64   `json:"agentRequests"`
	UniqueUsers   int     `json:"uniqueUsers"`
	PRUs          float64 `json:"prus"`
	Intensity     int     `json:"intensity"`
}

// LanguageStats totals completion activity for one language.
type LanguageStats struct {
	Language             string `json:"language"`
	TotalGenerations     int64  `json:"totalGenerations"`
	TotalAcceptances     int64  `json:"totalAcceptances"`
	TotalEngagements     int64  `json:"totalEngagements"`
	LOCAdded             int64  `json:"locAdded"`
	LOCDeleted           int64  `json:"locDeleted"`
	LOCSuggestedToAdd    int64  `json:"locSuggestedToAdd"`
	LOCSuggestedToDelete int64  `json:"locSuggestedToDelete"`
	UniqueUsers          int    `json:"uniqueUsers"`
}

// IDEStats totals usage for one IDE.
type IDEStats struct {
	IDE                 string `json:"ide"`
	UniqueUsers         int    `json:"uniqueUsers"`
	Entries             int    `json:"entries"`
	Interactions        int64  `json:"interactions"`
	LatestPluginVersion string `json:"latestPluginVersion,omitempty"`
}

// ModelFeatureDistribution spreads one model's interactions across features.
type ModelFeatureDistribution struct {
	Model             string  `json:"model"`
	AskMode           int64   `json:"askMode"`
	AgentMode         int64   `json:"agentMode"`
	EditMode          int64   `json:"editMode"`
	InlineMode        int64   `json:"inlineMode"`
	CodeCompletion    int64   `json:"codeCompletion"`
	Other             int64   `json:"other"`
	TotalInteractions int64   `json:"totalInteractions"`
	Multiplier        float64 `json:"multiplier"`
	IsPremium         bool    `json:"isPremium"`
	PRUs              float64 `json:"prus"`
}

// Model cost categories used by ModelBreakdown.
const (
	CategoryPremium  = "premium"
	CategoryStandard = "standard"
	CategoryUnknown  = "unknown"
)

// ModelBreakdown ranks one model by PRUs for the report table.
type ModelBreakdown struct {
	Model        string  `json:"model"`
	Vendor       string  `json:"vendor"`
	Category     string  `json:"category"`
	Requests     int64   `json:"requests"`
	Multiplier   float64 `json:"multiplier"`
	PRUs         float64 `json:"prus"`
	ServiceValue float64 `json:"serviceValue"`
	UniqueUsers  int     `json:"uniqueUsers"`
}

// FeatureAdoption counts users who touched each feature at least once.
type FeatureAdoption struct {
	TotalUsers      int            `json:"totalUsers"`
	CompletionUsers int            `json:"completionUsers"`
	ChatUsers       int            `json:"chatUsers"`
	AskModeUsers    int            `json:"askModeUsers"`
	AgentModeUsers  int            `json:"agentModeUsers"`
	EditModeUsers   int            `json:"editModeUsers"`
	InlineModeUsers int            `json:"inlineModeUsers"`
	AgentEditUsers  int            `json:"agentEditUsers"`
	CustomModeUsers int            `json:"customModeUsers"`
	ByFeature       map[string]int `json:"byFeature"`
}

// DailyImpact is one day of lines added and deleted for a feature group.
type DailyImpact struct {
	Date        string `json:"date"`
	LOCAdded    int64  `json:"locAdded"`
	LOCDeleted  int64  `json:"locDeleted"`
	ActiveUsers int    `json:"activeUsers"`
}

// LOCDrift reports how often feature-level line counts disagree with the
// record-level totals. Disagreement is expected from the feed and is never
// reconciled.
type LOCDrift struct {
	RecordsChecked     int   `json:"recordsChecked"`
	RecordsWithDrift   int   `json:"recordsWithDrift"`
	TopLevelLOCAdded   int64 `json:"topLevelLocAdded"`
	FeatureLOCAdded    int64 `json:"featureLocAdded"`
	TopLevelLOCDeleted int64 `json:"topLevelLocDeleted"`
	FeatureLOCDeleted  int64 `json:"featureLocDeleted"`
}

// Bundle is every view derived from one aggregation pass.
type Bundle struct {
	Stats                    Stats                      `json:"stats"`
	UserSummaries            []UserSummary              `json:"userSummaries"`
	EngagementData           []DailyEngagement          `json:"engagementData"`
	ChatUsersData            []DailyChatUsers           `json:"chatUsersData"`
	ChatRequestsData         []DailyChatRequests        `json:"chatRequestsData"`
	ModelUsageData           []DailyModelUsage          `json:"modelUsageData"`
	PRUAnalysisData          []DailyPRUAnalysis         `json:"pruAnalysisData"`
	AgentHeatmapData         []DailyAgentActivity       `json:"agentHeatmapData"`
	LanguageStats            []LanguageStats            `json:"languageStats"`
	IDEStats                 []IDEStats                 `json:"ideStats"`
	ModelFeatureDistribution []ModelFeatureDistribution `json:"modelFeatureDistribution"`
	ModelBreakdown           []ModelBreakdown           `json:"modelBreakdown"`
	FeatureAdoption          FeatureAdoption            `json:"featureAdoption"`
	AgentImpactData          []DailyImpact              `json:"agentImpactData"`
	CodeCompletionImpactData []DailyImpact              `json:"codeCompletionImpactData"`
	EditModeImpactData       []DailyImpact              `json:"editModeImpactData"`
	InlineModeImpactData     []DailyImpact              `json:"inlineModeImpactData"`
	AskModeImpactData        []DailyImpact              `json:"askModeImpactData"`
	JoinedImpactData         []DailyImpact              `json:"joinedImpactData"`
	LOCDrift                 LOCDrift                   `json:"locDrift"`
}
