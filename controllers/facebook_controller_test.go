package controller

import (
	"fmt"
	"testing"
	"time"

	"agencydesk/metrics"
)

func TestParseWindow(t *testing.T) {
	w, err := parseWindow("2026-08-01", "2026-08-07")
	if err != nil {
		t.Fatalf("parseWindow: %v", err)
	}
	if !w.Since.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("since = %v", w.Since)
	}
	if !w.Until.Equal(time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("until = %v", w.Until)
	}

	prev := w.Previous()
	if !prev.Since.Equal(time.Date(2026, 7, 25, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("previous since = %v", prev.Since)
	}
	if !prev.Until.Equal(time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("previous until = %v", prev.Until)
	}
}

// One fetch spans the current plus previous window; the aggregator's date
// filter must split the per-day rows cleanly between the two.
func TestAggregateSplitsSingleFetchAcrossWindows(t *testing.T) {
	window, err := parseWindow("2026-08-08", "2026-08-14")
	if err != nil {
		t.Fatalf("parseWindow: %v", err)
	}
	previous := window.Previous()

	// Per-day rows: 10/day spend in the previous week, 20/day in the
	// current week, all returned by a single span-wide fetch.
	var records []metrics.CampaignInsightRecord
	for day := 1; day <= 14; day++ {
		spend := metrics.FlexNumber(10)
		if day >= 8 {
			spend = 20
		}
		date := fmt.Sprintf("2026-08-%02d", day)
		records = append(records, metrics.CampaignInsightRecord{
			DateStart: date,
			DateStop:  date,
			Spend:     spend,
			Clicks:    5,
		})
	}
	campaigns := []metrics.Campaign{
		{ID: "123", Name: "Lead Gen", Insights: &metrics.InsightData{Data: records}},
	}

	current := metrics.Aggregate(campaigns, &window)
	prior := metrics.Aggregate(campaigns, &previous)

	if current.TotalSpent != 140 {
		t.Errorf("current TotalSpent = %v, want 140", current.TotalSpent)
	}
	if prior.TotalSpent != 70 {
		t.Errorf("previous TotalSpent = %v, want 70", prior.TotalSpent)
	}
	if current.TotalClicks != 35 || prior.TotalClicks != 35 {
		t.Errorf("clicks split = %v/%v, want 35/35", current.TotalClicks, prior.TotalClicks)
	}
	if change := metrics.PercentageChange(current.TotalSpent, prior.TotalSpent); change != 100 {
		t.Errorf("spend change = %v, want 100", change)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	if _, err := parseWindow("08/01/2026", "2026-08-07"); err == nil {
		t.Error("expected error for non-ISO since")
	}
	if _, err := parseWindow("2026-08-07", "2026-08-01"); err == nil {
		t.Error("expected error for inverted range")
	}
}
