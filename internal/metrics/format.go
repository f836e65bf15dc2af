package metrics

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
)

// bundle sorts and rounds the accumulated state into the output views.
// Rounding happens here only, never while accumulating.
func (a *aggregator) bundle(w window) *Bundle {
	b := &Bundle{}
	days := a.sortedDays()

	b.UserSummaries = a.userSummaries()
	b.EngagementData = make([]DailyEngagement, 0, len(days))
	b.ChatUsersData = make([]DailyChatUsers, 0, len(days))
	b.ChatRequestsData = make([]DailyChatRequests, 0, len(days))
	b.ModelUsageData = make([]DailyModelUsage, 0, len(days))
	b.PRUAnalysisData = make([]DailyPRUAnalysis, 0, len(days))
	b.AgentHeatmapData = make([]DailyAgentActivity, 0, len(days))

	totalUsers := len(a.users)
	impact := map[core.ImpactCategory]*[]DailyImpact{
		core.ImpactAgent:          &b.AgentImpactData,
		core.ImpactCodeCompletion: &b.CodeCompletionImpactData,
		core.ImpactEditMode:       &b.EditModeImpactData,
		core.ImpactInlineMode:     &b.InlineModeImpactData,
		core.ImpactAskMode:        &b.AskModeImpactData,
	}
	for _, series := range impact {
		*series = make([]DailyImpact, 0, len(days))
	}
	b.JoinedImpactData = make([]DailyImpact, 0, len(days))

	var maxAgentRequests int64
	var totalPRUs float64
	for _, d := range days {
		maxAgentRequests = max(maxAgentRequests, d.agentRequests)
		totalPRUs += d.prus
	}

	for _, d := range days {
		date := formatDay(d.date)

		b.EngagementData = append(b.EngagementData, DailyEngagement{
			Date:                 date,
			ActiveUsers:          len(d.active),
			TotalUsers:           totalUsers,
			EngagementPercentage: percentage(len(d.active), totalUsers),
		})
		b.ChatUsersData = append(b.ChatUsersData, DailyChatUsers{
			Date:            date,
			AskModeUsers:    len(d.chatUsers[core.ChatModeAsk]),
			AgentModeUsers:  len(d.chatUsers[core.ChatModeAgent]),
			EditModeUsers:   len(d.chatUsers[core.ChatModeEdit]),
			InlineModeUsers: len(d.chatUsers[core.ChatModeInline]),
		})
		b.ChatRequestsData = append(b.ChatRequestsData, DailyChatRequests{
			Date:               date,
			AskModeRequests:    d.chatRequests[core.ChatModeAsk],
			AgentModeRequests:  d.chatRequests[core.ChatModeAgent],
			EditModeRequests:   d.chatRequests[core.ChatModeEdit],
			InlineModeRequests: d.chatRequests[core.ChatModeInline],
		})
		b.ModelUsageData = append(b.ModelUsageData, DailyModelUsage{
			Date:           date,
			PRUModels:      d.pruModels,
			StandardModels: d.standardModels,
			UnknownModels:  d.unknownModels,
			TotalPRUs:      round2(d.prus),
			ServiceValue:   round2(d.prus * a.opts.PRUPrice),
		})
		b.PRUAnalysisData = append(b.PRUAnalysisData, DailyPRUAnalysis{
			Date:             date,
			TotalRequests:    d.premiumRequests + d.standardRequests,
			PremiumRequests:  d.premiumRequests,
			StandardRequests: d.standardRequests,
			TotalPRUs:        round2(d.prus),
			ServiceValue:     round2(d.prus * a.opts.PRUPrice),
			Models:           sortedModelUsage(d.modelUsage),
		})
		b.AgentHeatmapData = append(b.AgentHeatmapData, DailyAgentActivity{
			Date:          date,
			AgentRequests: d.agentRequests,
			UniqueUsers:   len(d.agentUsers),
			PRUs:          round2(d.agentPRUs),
			Intensity:     intensity(d.agentRequests, maxAgentRequests),
		})
		for cat, series := range impact {
			*series = append(*series, impactPoint(date, &d.impact[cat]))
		}
		b.JoinedImpactData = append(b.JoinedImpactData, impactPoint(date, &d.joined))
	}

	b.LanguageStats = a.languageStats()
	b.IDEStats = a.ideStats()
	b.ModelFeatureDistribution = a.modelFeatureDistribution()
	b.ModelBreakdown = a.modelBreakdown()
	b.FeatureAdoption = a.featureAdoption()
	b.LOCDrift = a.drift

	start, end := w.displayRange()
	b.Stats = Stats{
		UniqueUsers:         totalUsers,
		ChatUsers:           lo.CountBy(b.UserSummaries, func(u UserSummary) bool { return u.UsedChat }),
		AgentUsers:          lo.CountBy(b.UserSummaries, func(u UserSummary) bool { return u.UsedAgent }),
		CompletionOnlyUsers: lo.CountBy(b.UserSummaries, func(u UserSummary) bool { return !u.UsedChat && !u.UsedAgent }),
		TopLanguage:         noTopItem,
		TopIDE:              noTopItem,
		TopModel:            noTopItem,
		TotalRecords:        a.records,
		TotalPRUs:           round2(totalPRUs),
		ServiceValue:        round2(totalPRUs * a.opts.PRUPrice),
		ReportStartDay:      start,
		ReportEndDay:        end,
	}
	if len(b.LanguageStats) > 0 {
		top := b.LanguageStats[0]
		b.Stats.TopLanguage = TopItem{Name: top.Language, Engagements: top.TotalEngagements}
	}
	if len(b.IDEStats) > 0 {
		top := b.IDEStats[0]
		b.Stats.TopIDE = TopItem{Name: top.IDE, Engagements: int64(top.UniqueUsers)}
	}
	if len(b.ModelFeatureDistribution) > 0 {
		top := b.ModelFeatureDistribution[0]
		b.Stats.TopModel = TopItem{Name: top.Model, Engagements: top.TotalInteractions}
	}
	return b
}

func (a *aggregator) sortedDays() []*dayAcc {
	days := lo.Values(a.days)
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })
	return days
}

func (a *aggregator) userSummaries() []UserSummary {
	out := make([]UserSummary, 0, len(a.users))
	for _, u := range a.users {
		s := u.summary
		s.DaysActive = len(u.days)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserInitiatedInteractions != out[j].UserInitiatedInteractions {
			return out[i].UserInitiatedInteractions > out[j].UserInitiatedInteractions
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// Listing and "top" picks share one ordering: descending by the metric, then
// alphabetical, so ties never depend on map iteration order.

func (a *aggregator) languageStats() []LanguageStats {
	out := make([]LanguageStats, 0, len(a.languages))
	for _, acc := range a.languages {
		s := acc.stats
		s.UniqueUsers = len(acc.users)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEngagements != out[j].TotalEngagements {
			return out[i].TotalEngagements > out[j].TotalEngagements
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func (a *aggregator) ideStats() []IDEStats {
	out := make([]IDEStats, 0, len(a.ides))
	for _, acc := range a.ides {
		s := acc.stats
		s.UniqueUsers = len(acc.users)
		s.LatestPluginVersion = acc.latestVersion()
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UniqueUsers != out[j].UniqueUsers {
			return out[i].UniqueUsers > out[j].UniqueUsers
		}
		return out[i].IDE < out[j].IDE
	})
	return out
}

func (a *aggregator) modelFeatureDistribution() []ModelFeatureDistribution {
	out := make([]ModelFeatureDistribution, 0, len(a.models))
	for _, m := range a.models {
		d := m.dist
		d.PRUs = round2(m.prus)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalInteractions != out[j].TotalInteractions {
			return out[i].TotalInteractions > out[j].TotalInteractions
		}
		return out[i].Model < out[j].Model
	})
	return out
}

func (a *aggregator) modelBreakdown() []ModelBreakdown {
	type row struct {
		ModelBreakdown
		prus float64
	}
	rows := make([]row, 0, len(a.models))
	for key, m := range a.models {
		category := CategoryStandard
		switch {
		case m.unknown:
			category = CategoryUnknown
		case m.dist.IsPremium:
			category = CategoryPremium
		}
		rows = append(rows, row{
			ModelBreakdown: ModelBreakdown{
				Model:        key,
				Vendor:       core.DetectVendor(key),
				Category:     category,
				Requests:     m.dist.TotalInteractions,
				Multiplier:   m.dist.Multiplier,
				PRUs:         round2(m.prus),
				ServiceValue: round2(m.prus * a.opts.PRUPrice),
				UniqueUsers:  len(m.users),
			},
			prus: m.prus,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].prus != rows[j].prus {
			return rows[i].prus > rows[j].prus
		}
		if rows[i].Requests != rows[j].Requests {
			return rows[i].Requests > rows[j].Requests
		}
		return rows[i].Model < rows[j].Model
	})
	return lo.Map(rows, func(r row, _ int) ModelBreakdown { return r.ModelBreakdown })
}

func (a *aggregator) featureAdoption() FeatureAdoption {
	fa := FeatureAdoption{
		TotalUsers: len(a.users),
		ByFeature:  make(map[string]int),
	}
	for _, touched := range a.features {
		for name := range touched {
			fa.ByFeature[name]++
		}
		has := func(name string) bool {
			_, ok := touched[name]
			return ok
		}
		if has(core.FeatureCodeCompletion) {
			fa.CompletionUsers++
		}
		if lo.SomeBy(lo.Keys(touched), core.IsChatFeature) {
			fa.ChatUsers++
		}
		if has(core.FeatureChatAskMode) {
			fa.AskModeUsers++
		}
		if has(core.FeatureChatAgentMode) {
			fa.AgentModeUsers++
		}
		if has(core.FeatureChatEditMode) {
			fa.EditModeUsers++
		}
		if has(core.FeatureChatInline) {
			fa.InlineModeUsers++
		}
		if has(core.FeatureAgentEdit) {
			fa.AgentEditUsers++
		}
		if has(core.FeatureChatCustomMode) {
			fa.CustomModeUsers++
		}
	}
	return fa
}

func sortedModelUsage(m map[string]*ModelPRUUsage) []ModelPRUUsage {
	raw := make([]ModelPRUUsage, 0, len(m))
	for _, u := range m {
		raw = append(raw, *u)
	}
	sort.Slice(raw, func(i, j int) bool {
		if raw[i].PRUs != raw[j].PRUs {
			return raw[i].PRUs > raw[j].PRUs
		}
		if raw[i].Requests != raw[j].Requests {
			return raw[i].Requests > raw[j].Requests
		}
		return strings.Compare(raw[i].Model, raw[j].Model) < 0
	})
	for i := range raw {
		raw[i].PRUs = round2(raw[i].PRUs)
	}
	return raw
}

func impactPoint(date string, acc *impactAcc) DailyImpact {
	return DailyImpact{
		Date:        date,
		LOCAdded:    acc.added,
		LOCDeleted:  acc.deleted,
		ActiveUsers: len(acc.users),
	}
}

func intensity(requests, maxRequests int64) int {
	if requests <= 0 || maxRequests <= 0 {
		return 0
	}
	return int(math.Ceil(float64(requests) / float64(maxRequests) * 4))
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
