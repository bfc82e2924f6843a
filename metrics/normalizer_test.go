package metrics

import (
	"encoding/json"
	"testing"
)

func flex(v float64) *FlexNumber {
	n := FlexNumber(v)
	return &n
}

func TestNormalize_DirectPurchaseWinsOverActions(t *testing.T) {
	rec := CampaignInsightRecord{
		Purchase: flex(3),
		Actions: []Action{
			{ActionType: "offsite_conversion.fb_pixel_purchase", Value: 7},
		},
	}
	if got := Normalize(rec).Results; got != 3 {
		t.Fatalf("expected direct purchase field to win, got results=%v", got)
	}
}

func TestNormalize_ActionsFallback(t *testing.T) {
	rec := CampaignInsightRecord{
		Actions: []Action{
			{ActionType: "link_click", Value: 40},
			{ActionType: "offsite_conversion.fb_pixel_purchase", Value: 5},
		},
	}
	if got := Normalize(rec).Results; got != 5 {
		t.Fatalf("expected results=5 from pixel purchase action, got %v", got)
	}
}

func TestNormalize_PrecedenceOrder(t *testing.T) {
	rec := CampaignInsightRecord{
		WebsitePurchases: flex(4),
		Conversions:      flex(9),
	}
	if got := Normalize(rec).Results; got != 4 {
		t.Fatalf("expected website_purchases before conversions, got %v", got)
	}

	rec = CampaignInsightRecord{
		Conversions: flex(9),
		Actions:     []Action{{ActionType: "purchase", Value: 2}},
	}
	if got := Normalize(rec).Results; got != 9 {
		t.Fatalf("expected conversions before actions, got %v", got)
	}
}

func TestNormalize_EmptyRecordIsAllZero(t *testing.T) {
	n := Normalize(CampaignInsightRecord{})
	if n != (NormalizedRecord{}) {
		t.Fatalf("expected zero record, got %+v", n)
	}
}

func TestFlexNumber_StringAndMalformedInput(t *testing.T) {
	var rec CampaignInsightRecord
	payload := `{
		"date_start": "2026-01-05",
		"spend": "120.50",
		"clicks": "37",
		"impressions": 9100,
		"frequency": "not-a-number",
		"actions": [{"action_type": "website_purchase", "value": "5"}]
	}`
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	n := Normalize(rec)
	if n.Spend != 120.50 || n.Clicks != 37 || n.Impressions != 9100 {
		t.Fatalf("string numerics not parsed: %+v", n)
	}
	if n.Frequency != 0 {
		t.Fatalf("malformed frequency must become 0, got %v", n.Frequency)
	}
	if n.Results != 5 {
		t.Fatalf("expected results=5 from actions string value, got %v", n.Results)
	}
}
