package core

import "testing"

func TestChatModeOf(t *testing.T) {
	tests := []struct {
		feature string
		want    ChatMode
	}{
		{FeatureChatAskMode, ChatModeAsk},
		{FeatureChatAgentMode, ChatModeAgent},
		{FeatureChatEditMode, ChatModeEdit},
		{FeatureChatInline, ChatModeInline},
		{" Chat_Panel_Ask_Mode ", ChatModeAsk},
		{FeatureChatCustomMode, ChatModeNone},
		{FeatureCodeCompletion, ChatModeNone},
		{FeatureAgentEdit, ChatModeNone},
	}
	for _, tt := range tests {
		if got := ChatModeOf(tt.feature); got != tt.want {
			t.Errorf("ChatModeOf(%q) = %d, want %d", tt.feature, got, tt.want)
		}
	}
}

func TestFeaturePredicates(t *testing.T) {
	if !IsChatFeature(FeatureChatUnknownMode) || !IsChatFeature(FeatureChatInline) {
		t.Fatal("panel and inline modes are chat features")
	}
	if IsChatFeature(FeatureCodeCompletion) || IsChatFeature(FeatureAgentEdit) {
		t.Fatal("completion and agent_edit are not chat features")
	}
	if !IsAgentFeature(FeatureAgentEdit) || !IsAgentFeature(FeatureChatAgentMode) {
		t.Fatal("agent features not recognized")
	}
	if ImpactCategoryOf(FeatureAgentEdit) != ImpactAgent {
		t.Fatal("agent_edit should count toward agent impact")
	}
	if ImpactCategoryOf(FeatureChatCustomMode) != ImpactNone {
		t.Fatal("custom mode has no impact category")
	}
}
