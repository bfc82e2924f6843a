package metrics

import (
	"math"
	"testing"
	"time"
)

func campaignWith(recs ...CampaignInsightRecord) Campaign {
	return Campaign{Name: "c", Insights: &InsightData{Data: recs}}
}

func TestAggregate_EmptyInsightsContributeNothing(t *testing.T) {
	campaigns := []Campaign{
		{Name: "no insights at all"},
		{Name: "empty data", Insights: &InsightData{}},
	}
	m := Aggregate(campaigns, nil)
	if m != (AggregatedMetrics{}) {
		t.Fatalf("expected all-zero metrics, got %+v", m)
	}
}

func TestAggregate_TotalsAndRatios(t *testing.T) {
	campaigns := []Campaign{
		campaignWith(
			CampaignInsightRecord{Spend: 100, Clicks: 50, Impressions: 1000, Purchase: flex(5)},
			CampaignInsightRecord{Spend: 50, Clicks: 25, Impressions: 500, Purchase: flex(0)},
		),
	}
	m := Aggregate(campaigns, nil)
	if m.TotalSpent != 150 || m.TotalClicks != 75 || m.TotalImpressions != 1500 || m.TotalResults != 5 {
		t.Fatalf("unexpected totals: %+v", m)
	}
	if got, want := m.ConversionRate, 5.0/1500*100; math.Abs(got-want) > 1e-9 {
		t.Fatalf("conversion rate: got %v want %v", got, want)
	}
	if m.CostPerResult != 30 {
		t.Fatalf("cost per result: got %v want 30", m.CostPerResult)
	}
	if m.CostPerClick != 2 {
		t.Fatalf("cost per click: got %v want 2", m.CostPerClick)
	}
}

func TestAggregate_ZeroDenominatorsResolveToZero(t *testing.T) {
	m := Aggregate([]Campaign{campaignWith(CampaignInsightRecord{Spend: 10})}, nil)
	if m.ConversionRate != 0 || m.CostPerResult != 0 || m.CostPerClick != 0 || m.AverageFrequency != 0 {
		t.Fatalf("expected zero ratios, got %+v", m)
	}
}

func TestAggregate_AverageFrequencySkipsNonPositive(t *testing.T) {
	m := Aggregate([]Campaign{campaignWith(
		CampaignInsightRecord{},
		CampaignInsightRecord{Frequency: 0},
		CampaignInsightRecord{Frequency: 4},
		CampaignInsightRecord{Frequency: 6},
	)}, nil)
	if m.AverageFrequency != 5 {
		t.Fatalf("expected mean of positive frequencies only (5), got %v", m.AverageFrequency)
	}
}

func TestAggregate_DateWindowInclusive(t *testing.T) {
	campaigns := []Campaign{campaignWith(
		CampaignInsightRecord{DateStart: "2026-03-01", Spend: 1},
		CampaignInsightRecord{DateStart: "2026-03-05", Spend: 2},
		CampaignInsightRecord{DateStart: "2026-03-10", Spend: 4},
		CampaignInsightRecord{DateStart: "bogus", Spend: 8},
	)}
	w := &Window{
		Since: time.Date(2026, 3, 1, 13, 30, 0, 0, time.UTC),
		Until: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	m := Aggregate(campaigns, w)
	if m.TotalSpent != 3 {
		t.Fatalf("expected boundary days included and bad dates skipped, got spend %v", m.TotalSpent)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	campaigns := []Campaign{campaignWith(
		CampaignInsightRecord{Spend: 20, Clicks: 10, Impressions: 100, Frequency: 2, Purchase: flex(1)},
	)}
	first := Aggregate(campaigns, nil)
	second := Aggregate(campaigns, nil)
	if first != second {
		t.Fatalf("aggregation not idempotent: %+v vs %+v", first, second)
	}
}

func TestWindow_Previous(t *testing.T) {
	w := Window{
		Since: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	p := w.Previous()
	if !p.Since.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) ||
		!p.Until.Equal(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected previous window: %+v", p)
	}
}

func TestEstimatedLeads(t *testing.T) {
	if got := EstimatedLeads(500, DefaultEstimatedLeadRate); got != 10 {
		t.Fatalf("expected 10 estimated leads, got %v", got)
	}
	if got := EstimatedLeads(0, DefaultEstimatedLeadRate); got != 0 {
		t.Fatalf("expected 0 for no clicks, got %v", got)
	}
}
