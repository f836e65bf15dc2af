// Package metrics turns a flat list of daily usage records into the derived
// views shown in dashboards and exports, in a single pass over the input.
package metrics

import (
	"time"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
)

// DefaultPRUPrice is the list price in USD of one premium request unit.
const DefaultPRUPrice = 0.04

// Options controls filtering, classification and pricing for Aggregate.
type Options struct {
	DateFilter             core.DateFilter
	RemoveUnknownLanguages bool
	// Models classifies model keys. Nil selects core.DefaultModelTable.
	Models *core.ModelTable
	// PRUPrice converts PRUs into service value. Zero selects DefaultPRUPrice.
	PRUPrice float64
}

func (o Options) withDefaults() Options {
	if o.DateFilter == "" {
		o.DateFilter = core.DateFilterAll
	}
	if o.Models == nil {
		o.Models = core.DefaultModelTable()
	}
	if o.PRUPrice <= 0 {
		o.PRUPrice = DefaultPRUPrice
	}
	return o
}

// Aggregate computes every derived view over records. Records are never
// modified and all intermediate state is local to the call, so concurrent
// calls are independent. Records whose day cannot be parsed are skipped.
func Aggregate(records []core.UsageRecord, opts Options) *Bundle {
	opts = opts.withDefaults()
	w := newWindow(records, opts.DateFilter)

	a := newAggregator(opts)
	for i := range records {
		rec := &records[i]
		date, ok := recordDate(rec)
		if !ok || !w.contains(date) {
			continue
		}
		a.add(rec, date)
	}
	return a.bundle(w)
}

func recordDate(rec *core.UsageRecord) (time.Time, bool) {
	if !rec.Date.IsZero() {
		return rec.Date, true
	}
	return core.ParseDay(rec.Day)
}

// window is the inclusive date range selected by a DateFilter, anchored on
// the latest report_end_day (or the latest record day when none is set).
type window struct {
	start, end time.Time
	bounded    bool

	reportStart, reportEnd time.Time
}

func newWindow(records []core.UsageRecord, filter core.DateFilter) window {
	var w window
	var minDay, maxDay time.Time
	for i := range records {
		rec := &records[i]
		if d, ok := recordDate(rec); ok {
			if minDay.IsZero() || d.Before(minDay) {
				minDay = d
			}
			if d.After(maxDay) {
				maxDay = d
			}
		}
		if d, ok := core.ParseDay(rec.ReportStartDay); ok && (w.reportStart.IsZero() || d.Before(w.reportStart)) {
			w.reportStart = d
		}
		if d, ok := core.ParseDay(rec.ReportEndDay); ok && d.After(w.reportEnd) {
			w.reportEnd = d
		}
	}
	if w.reportStart.IsZero() {
		w.reportStart = minDay
	}
	if w.reportEnd.IsZero() {
		w.reportEnd = maxDay
	}

	if start, ok := filter.Window(w.reportEnd); ok {
		w.start, w.end, w.bounded = start, w.reportEnd, true
	}
	return w
}

func (w window) contains(d time.Time) bool {
	if !w.bounded {
		return true
	}
	return !d.Before(w.start) && !d.After(w.end)
}

// displayRange is the range shown alongside the stats: the filter window
// when one applies, otherwise the report's own range.
func (w window) displayRange() (start, end string) {
	s, e := w.reportStart, w.reportEnd
	if w.bounded {
		s, e = w.start, w.end
	}
	return formatDay(s), formatDay(e)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(core.DayLayout)
}
