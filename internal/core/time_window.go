package core

import (
	"strings"
	"time"
)

// DateFilter selects a trailing window of report days, inclusive of the
// report's end date.
type DateFilter string

const (
	DateFilterAll        DateFilter = "all"
	DateFilterLast7Days  DateFilter = "last7days"
	DateFilterLast14Days DateFilter = "last14days"
	DateFilterLast28Days DateFilter = "last28days"
)

// ValidDateFilters lists the canonical filter names in display order.
var ValidDateFilters = []DateFilter{
	DateFilterAll,
	DateFilterLast7Days,
	DateFilterLast14Days,
	DateFilterLast28Days,
}

// Days returns the window size in days, or 0 for the unbounded filter.
func (f DateFilter) Days() int {
	switch f {
	case DateFilterLast7Days:
		return 7
	case DateFilterLast14Days:
		return 14
	case DateFilterLast28Days:
		return 28
	default:
		return 0
	}
}

func (f DateFilter) Label() string {
	switch f {
	case DateFilterLast7Days:
		return "Last 7 days"
	case DateFilterLast14Days:
		return "Last 14 days"
	case DateFilterLast28Days:
		return "Last 28 days"
	default:
		return "All time"
	}
}

// Window returns the inclusive [start, end] range ending at end. ok is false
// for the unbounded filter.
func (f DateFilter) Window(end time.Time) (start time.Time, ok bool) {
	days := f.Days()
	if days <= 0 || end.IsZero() {
		return time.Time{}, false
	}
	return end.AddDate(0, 0, -(days - 1)), true
}

// ParseDateFilter accepts the canonical names plus a few shorthand aliases.
// Unrecognized values select DateFilterAll.
func ParseDateFilter(s string) DateFilter {
	f, _ := LookupDateFilter(s)
	return f
}

// LookupDateFilter is ParseDateFilter that also reports whether s named a
// filter.
func LookupDateFilter(s string) (DateFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return DateFilterAll, true
	case "last7days", "7d", "7":
		return DateFilterLast7Days, true
	case "last14days", "14d", "14":
		return DateFilterLast14Days, true
	case "last28days", "28d", "28":
		return DateFilterLast28Days, true
	default:
		return DateFilterAll, false
	}
}
