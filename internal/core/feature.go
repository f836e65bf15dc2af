package core

import "strings"

// Feature names as they appear in totals_by_feature and the other breakdowns.
const (
	FeatureCodeCompletion  = "code_completion"
	FeatureChatAskMode     = "chat_panel_ask_mode"
	FeatureChatAgentMode   = "chat_panel_agent_mode"
	FeatureChatEditMode    = "chat_panel_edit_mode"
	FeatureChatCustomMode  = "chat_panel_custom_mode"
	FeatureChatUnknownMode = "chat_panel_unknown_mode"
	FeatureChatInline      = "chat_inline"
	FeatureAgentEdit       = "agent_edit"
)

// ChatMode is one of the four chat surfaces tracked per day.
type ChatMode int

const (
	ChatModeNone ChatMode = iota
	ChatModeAsk
	ChatModeAgent
	ChatModeEdit
	ChatModeInline
)

// ChatModeOf maps a feature name to its chat mode. Features outside the four
// tracked surfaces return ChatModeNone.
func ChatModeOf(feature string) ChatMode {
	switch normalizeFeature(feature) {
	case FeatureChatAskMode:
		return ChatModeAsk
	case FeatureChatAgentMode:
		return ChatModeAgent
	case FeatureChatEditMode:
		return ChatModeEdit
	case FeatureChatInline:
		return ChatModeInline
	default:
		return ChatModeNone
	}
}

// IsChatFeature reports whether the feature is any chat sub-mode, including
// custom and unknown panel modes.
func IsChatFeature(feature string) bool {
	f := normalizeFeature(feature)
	return f == FeatureChatInline || strings.HasPrefix(f, "chat_panel_")
}

// IsAgentFeature reports whether the feature counts as agent activity.
func IsAgentFeature(feature string) bool {
	f := normalizeFeature(feature)
	return f == FeatureChatAgentMode || f == FeatureAgentEdit
}

// ImpactCategory groups features whose lines of code are reported together.
type ImpactCategory int

const (
	ImpactNone ImpactCategory = iota
	ImpactAgent
	ImpactCodeCompletion
	ImpactEditMode
	ImpactInlineMode
	ImpactAskMode
)

// ImpactCategories lists the categories in display order. The joined series
// is derived from all of them.
var ImpactCategories = []ImpactCategory{
	ImpactAgent,
	ImpactCodeCompletion,
	ImpactEditMode,
	ImpactInlineMode,
	ImpactAskMode,
}

func ImpactCategoryOf(feature string) ImpactCategory {
	switch normalizeFeature(feature) {
	case FeatureChatAgentMode, FeatureAgentEdit:
		return ImpactAgent
	case FeatureCodeCompletion:
		return ImpactCodeCompletion
	case FeatureChatEditMode:
		return ImpactEditMode
	case FeatureChatInline:
		return ImpactInlineMode
	case FeatureChatAskMode:
		return ImpactAskMode
	default:
		return ImpactNone
	}
}

func normalizeFeature(feature string) string {
	return strings.ToLower(strings.TrimSpace(feature))
}
