package core

import (
	"testing"
	"time"
)

func TestDateFilterDays(t *testing.T) {
	tests := []struct {
		f    DateFilter
		want int
	}{
		{DateFilterAll, 0},
		{DateFilterLast7Days, 7},
		{DateFilterLast14Days, 14},
		{DateFilterLast28Days, 28},
		{DateFilter(""), 0},
		{DateFilter("last99days"), 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.f), func(t *testing.T) {
			if got := tt.f.Days(); got != tt.want {
				t.Errorf("DateFilter(%q).Days() = %d, want %d", tt.f, got, tt.want)
			}
		})
	}
}

func TestDateFilterWindow(t *testing.T) {
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	start, ok := DateFilterLast7Days.Window(end)
	if !ok {
		t.Fatal("expected bounded window")
	}
	if want := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("start = %s, want %s", start, want)
	}

	if _, ok := DateFilterAll.Window(end); ok {
		t.Fatal("all filter should be unbounded")
	}
	if _, ok := DateFilterLast7Days.Window(time.Time{}); ok {
		t.Fatal("zero end date should be unbounded")
	}
}

func TestParseDateFilter(t *testing.T) {
	tests := []struct {
		in   string
		want DateFilter
	}{
		{"last7days", DateFilterLast7Days},
		{"LAST14DAYS", DateFilterLast14Days},
		{"28d", DateFilterLast28Days},
		{"7", DateFilterLast7Days},
		{"all", DateFilterAll},
		{"", DateFilterAll},
		{"bogus", DateFilterAll},
	}
	for _, tt := range tests {
		if got := ParseDateFilter(tt.in); got != tt.want {
			t.Errorf("ParseDateFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupDateFilter(t *testing.T) {
	for _, f := range ValidDateFilters {
		got, ok := LookupDateFilter(string(f))
		if !ok || got != f {
			t.Errorf("LookupDateFilter(%q) = %q, %v, want %q, true", f, got, ok, f)
		}
	}
	for _, in := range []string{"", "bogus", "30d"} {
		if _, ok := LookupDateFilter(in); ok {
			t.Errorf("LookupDateFilter(%q) ok = true, want false", in)
		}
	}
}
