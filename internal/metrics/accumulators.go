package metrics

import (
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
)

// userSet holds distinct user ids. Every accumulator below is a sum or a set
// union, so partial aggregators over disjoint record shards can be merged.
type userSet map[int64]struct{}

func (s userSet) add(id int64) { s[id] = struct{}{} }

type impactAcc struct {
	added, deleted int64
	users          userSet
}

func (i *impactAcc) add(userID, added, deleted int64) {
	i.added += added
	i.deleted += deleted
	i.users.add(userID)
}

type dayAcc struct {
	date   time.Time
	active userSet

	chatUsers    [core.ChatModeInline + 1]userSet
	chatRequests [core.ChatModeInline + 1]int64

	pruModels, standardModels, unknownModels int64
	prus                                     float64

	premiumRequests, standardRequests int64
	modelUsage                        map[string]*ModelPRUUsage

	agentRequests int64
	agentUsers    userSet
	agentPRUs     float64

	impact [core.ImpactAskMode + 1]impactAcc
	joined impactAcc
}

func newDayAcc(date time.Time) *dayAcc {
	d := &dayAcc{
		date:       date,
		active:     userSet{},
		modelUsage: make(map[string]*ModelPRUUsage),
		agentUsers: userSet{},
		joined:     impactAcc{users: userSet{}},
	}
	for i := range d.chatUsers {
		d.chatUsers[i] = userSet{}
	}
	for i := range d.impact {
		d.impact[i].users = userSet{}
	}
	return d
}

type userAcc struct {
	summary UserSummary
	days    map[string]struct{}
}

type languageAcc struct {
	stats LanguageStats
	users userSet
}

type ideAcc struct {
	stats         IDEStats
	users         userSet
	bestSemver    string
	latestRaw     string
	unversionedID string
}

type modelAcc struct {
	dist    ModelFeatureDistribution
	unknown bool
	prus    float64
	users   userSet
}

type aggregator struct {
	opts    Options
	records int

	users     map[int64]*userAcc
	days      map[string]*dayAcc
	languages map[string]*languageAcc
	ides      map[string]*ideAcc
	models    map[string]*modelAcc
	features  map[int64]map[string]struct{}
	drift     LOCDrift
}

func newAggregator(opts Options) *aggregator {
	return &aggregator{
		opts:      opts,
		users:     make(map[int64]*userAcc),
		days:      make(map[string]*dayAcc),
		languages: make(map[string]*languageAcc),
		ides:      make(map[string]*ideAcc),
		models:    make(map[string]*modelAcc),
		features:  make(map[int64]map[string]struct{}),
	}
}

func (a *aggregator) add(rec *core.UsageRecord, date time.Time) {
	a.records++
	dayKey := date.Format(core.DayLayout)

	day, ok := a.days[dayKey]
	if !ok {
		day = newDayAcc(date)
		a.days[dayKey] = day
	}
	day.active.add(rec.UserID)

	a.addUser(rec, dayKey)
	a.addFeatures(rec, day)
	a.addLanguages(rec)
	a.addIDEs(rec)
	a.addModels(rec, day)
}

func (a *aggregator) addUser(rec *core.UsageRecord, dayKey string) {
	u, ok := a.users[rec.UserID]
	if !ok {
		u = &userAcc{
			summary: UserSummary{UserID: rec.UserID},
			days:    make(map[string]struct{}),
		}
		a.users[rec.UserID] = u
	}
	s := &u.summary
	if s.UserLogin == "" {
		s.UserLogin = rec.UserLogin
	}
	s.UserInitiatedInteractions += rec.UserInitiatedInteractions
	s.CodeGenerations += rec.CodeGenerations
	s.CodeAcceptances += rec.CodeAcceptances
	s.LOCAdded += rec.LOCAdded
	s.LOCDeleted += rec.LOCDeleted
	s.LOCSuggestedToAdd += rec.LOCSuggestedToAdd
	s.LOCSuggestedToDelete += rec.LOCSuggestedToDelete
	s.UsedChat = s.UsedChat || rec.UsedChat
	s.UsedAgent = s.UsedAgent || rec.UsedAgent
	u.days[dayKey] = struct{}{}
}

// addFeatures feeds totals_by_feature into the chat, agent, adoption, impact
// and drift accumulators.
func (a *aggregator) addFeatures(rec *core.UsageRecord, day *dayAcc) {
	uid := rec.UserID
	touched, ok := a.features[uid]
	if !ok {
		touched = make(map[string]struct{})
		a.features[uid] = touched
	}

	var impact [core.ImpactAskMode + 1]core.Counters
	var featureTotals core.Counters

	for _, f := range rec.TotalsByFeature {
		n := f.UserInitiatedInteractions
		featureTotals.Add(f.Counters)

		if name := strings.ToLower(strings.TrimSpace(f.Feature)); name != "" && (n > 0 || f.CodeGenerations > 0) {
			touched[name] = struct{}{}
		}

		if mode := core.ChatModeOf(f.Feature); mode != core.ChatModeNone {
			day.chatRequests[mode] += n
			if n > 0 {
				day.chatUsers[mode].add(uid)
			}
		}

		if core.IsAgentFeature(f.Feature) {
			day.agentRequests += n
			if n > 0 {
				day.agentUsers.add(uid)
			}
		}

		if cat := core.ImpactCategoryOf(f.Feature); cat != core.ImpactNone {
			impact[cat].Add(f.Counters)
		}
	}

	// A category only registers the user when lines actually changed, so
	// zero-effect activity does not inflate the daily user counts.
	var joined core.Counters
	for _, cat := range core.ImpactCategories {
		c := impact[cat]
		joined.Add(c)
		if c.HasLOCChange() {
			day.impact[cat].add(uid, c.LOCAdded, c.LOCDeleted)
		}
	}
	if joined.HasLOCChange() {
		day.joined.add(uid, joined.LOCAdded, joined.LOCDeleted)
	}

	if len(rec.TotalsByFeature) > 0 {
		a.drift.RecordsChecked++
		a.drift.TopLevelLOCAdded += rec.LOCAdded
		a.drift.TopLevelLOCDeleted += rec.LOCDeleted
		a.drift.FeatureLOCAdded += featureTotals.LOCAdded
		a.drift.FeatureLOCDeleted += featureTotals.LOCDeleted
		if featureTotals.LOCAdded != rec.LOCAdded || featureTotals.LOCDeleted != rec.LOCDeleted {
			a.drift.RecordsWithDrift++
		}
	}
}

func (a *aggregator) addLanguages(rec *core.UsageRecord) {
	for _, lf := range rec.TotalsByLanguageFeature {
		lang, ok := a.languageKey(lf.Language)
		if !ok {
			continue
		}
		acc, ok := a.languages[lang]
		if !ok {
			acc = &languageAcc{stats: LanguageStats{Language: lang}, users: userSet{}}
			a.languages[lang] = acc
		}
		s := &acc.stats
		s.TotalGenerations += lf.CodeGenerations
		s.TotalAcceptances += lf.CodeAcceptances
		s.TotalEngagements += lf.CodeGenerations + lf.CodeAcceptances
		s.LOCAdded += lf.LOCAdded
		s.LOCDeleted += lf.LOCDeleted
		s.LOCSuggestedToAdd += lf.LOCSuggestedToAdd
		s.LOCSuggestedToDelete += lf.LOCSuggestedToDelete
		acc.users.add(rec.UserID)
	}
}

// languageKey lowercases a language name. Blank and "unknown" names collapse
// into the unknown bucket, or are rejected when RemoveUnknownLanguages is set.
func (a *aggregator) languageKey(name string) (string, bool) {
	lang := strings.ToLower(strings.TrimSpace(name))
	if lang == "" || lang == core.UnknownModel {
		if a.opts.RemoveUnknownLanguages {
			return "", false
		}
		return "unknown", true
	}
	return lang, true
}

func (a *aggregator) addIDEs(rec *core.UsageRecord) {
	for _, it := range rec.TotalsByIDE {
		name := strings.ToLower(strings.TrimSpace(it.IDE))
		if name == "" {
			name = "unknown"
		}
		acc, ok := a.ides[name]
		if !ok {
			acc = &ideAcc{stats: IDEStats{IDE: name}, users: userSet{}}
			a.ides[name] = acc
		}
		acc.stats.Entries++
		acc.stats.Interactions += it.UserInitiatedInteractions
		acc.users.add(rec.UserID)
		if it.LastKnownPluginVersion != nil {
			acc.observeVersion(it.LastKnownPluginVersion.PluginVersion)
		}
	}
}

// observeVersion keeps the highest semver plugin version seen. Versions that
// are not semver are only reported when no valid version ever appears.
func (i *ideAcc) observeVersion(raw string) {
	v := strings.TrimSpace(raw)
	if idx := strings.LastIndex(v, "/"); idx >= 0 {
		v = v[idx+1:]
	}
	if v == "" {
		return
	}
	canonical := v
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	if !semver.IsValid(canonical) {
		if i.unversionedID == "" {
			i.unversionedID = v
		}
		return
	}
	if i.bestSemver == "" || semver.Compare(canonical, i.bestSemver) > 0 {
		i.bestSemver = canonical
		i.latestRaw = v
	}
}

func (i *ideAcc) latestVersion() string {
	if i.latestRaw != "" {
		return i.latestRaw
	}
	return i.unversionedID
}

func (a *aggregator) addModels(rec *core.UsageRecord, day *dayAcc) {
	for _, mf := range rec.TotalsByModelFeature {
		key := modelKey(mf.Model)
		class, known := a.opts.Models.ClassifyOrUnknown(key)
		unknown := !known || key == core.UnknownModel
		n := mf.UserInitiatedInteractions
		prus := float64(n) * class.Multiplier

		switch {
		case unknown:
			day.unknownModels += n
		case class.IsPremium:
			day.pruModels += n
		default:
			day.standardModels += n
		}
		day.prus += prus

		usage, ok := day.modelUsage[key]
		if !ok {
			usage = &ModelPRUUsage{Model: key, Multiplier: class.Multiplier, IsPremium: class.IsPremium}
			day.modelUsage[key] = usage
		}
		usage.Requests += n
		usage.PRUs += prus
		if class.IsPremium {
			day.premiumRequests += n
		} else {
			day.standardRequests += n
		}

		if core.IsAgentFeature(mf.Feature) {
			day.agentPRUs += prus
		}

		m, ok := a.models[key]
		if !ok {
			m = &modelAcc{
				dist: ModelFeatureDistribution{
					Model:      key,
					Multiplier: class.Multiplier,
					IsPremium:  class.IsPremium,
				},
				unknown: unknown,
				users:   userSet{},
			}
			a.models[key] = m
		}
		m.add(mf.Feature, n, prus)
		if n > 0 {
			m.users.add(rec.UserID)
		}
	}
}

func (m *modelAcc) add(feature string, n int64, prus float64) {
	d := &m.dist
	switch core.ChatModeOf(feature) {
	case core.ChatModeAsk:
		d.AskMode += n
	case core.ChatModeAgent:
		d.AgentMode += n
	case core.ChatModeEdit:
		d.EditMode += n
	case core.ChatModeInline:
		d.InlineMode += n
	default:
		switch core.ImpactCategoryOf(feature) {
		case core.ImpactAgent:
			d.AgentMode += n
		case core.ImpactCodeCompletion:
			d.CodeCompletion += n
		default:
			d.Other += n
		}
	}
	d.TotalInteractions += n
	m.prus += prus
}

// modelKey lowercases a model name; blank names map to the unknown bucket.
func modelKey(model string) string {
	key := strings.ToLower(strings.TrimSpace(model))
	if key == "" {
		return core.UnknownModel
	}
	return key
}
