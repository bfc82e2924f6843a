package insights

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestGenerator() Generator {
	return Generator{Now: func() time.Time { return testNow }}
}

func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

func TestGenerate_GrowthScopedToSelectedClient(t *testing.T) {
	g := newTestGenerator()
	in := Input{
		PlatformMetrics: []PlatformMetric{
			{Platform: "X", Metric: "CTR", Value: 1, PreviousValue: 1, ChangePercentage: 25, AccountID: "a1"},
		},
		SelectedClient: "a1",
	}

	out := g.Generate(in)
	if len(out) != 1 {
		t.Fatalf("expected exactly one insight, got %d: %+v", len(out), out)
	}
	if out[0].Category != CategoryGrowth {
		t.Fatalf("expected growth category, got %s", out[0].Category)
	}
	if !strings.Contains(out[0].Message, "X") || !strings.Contains(out[0].Message, "25%") {
		t.Fatalf("growth message must name platform and percentage: %q", out[0].Message)
	}

	in.SelectedClient = "a2"
	if out := g.Generate(in); len(out) != 0 {
		t.Fatalf("scope filter must exclude other accounts, got %+v", out)
	}
}

func TestGenerate_GrowthAndDeclineMutuallyExclusive(t *testing.T) {
	g := newTestGenerator()
	in := Input{
		PlatformMetrics: []PlatformMetric{
			{Platform: "Facebook", Metric: "CPC", ChangePercentage: -20},
			{Platform: "Google", Metric: "Clicks", ChangePercentage: 10},
		},
		SelectedClient: SelectedClientAll,
	}
	out := g.Generate(in)
	if len(out) != 1 {
		t.Fatalf("expected one decline insight only, got %+v", out)
	}
	if out[0].Category != CategoryDecline || !strings.Contains(out[0].Message, "20%") {
		t.Fatalf("expected decline naming absolute percentage, got %+v", out[0])
	}
}

func TestGenerate_KeywordTriggersBothStaleAndHighCPC(t *testing.T) {
	g := newTestGenerator()
	in := Input{
		KeywordPerformance: []KeywordPerformance{
			{
				Keyword:            "emergency plumber",
				Platform:           "Google Ads",
				Impressions:        1500,
				Conversions:        0,
				Cost:               312.4,
				CPC:                6,
				LastConversionDate: daysAgo(100),
			},
		},
		SelectedClient: SelectedClientAll,
	}
	out := g.Generate(in)
	if len(out) != 2 {
		t.Fatalf("expected both stale and high-CPC insights, got %+v", out)
	}
	if out[0].Category != CategoryWarning || !strings.Contains(out[0].Message, "100 days") {
		t.Fatalf("expected stale-keyword warning first, got %+v", out[0])
	}
	if !strings.Contains(out[0].Message, "312.40") {
		t.Fatalf("cost must be formatted to 2 decimals: %q", out[0].Message)
	}
	if out[1].Category != CategoryHighCost || !strings.Contains(out[1].Message, "6.00") {
		t.Fatalf("expected high-CPC insight with 2-decimal cpc, got %+v", out[1])
	}
}

func TestGenerate_StaleKeywordNeedsImpressions(t *testing.T) {
	g := newTestGenerator()
	in := Input{
		KeywordPerformance: []KeywordPerformance{
			{Keyword: "low volume", Platform: "Google Ads", Impressions: 900, Conversions: 1, CPC: 1, LastConversionDate: daysAgo(120)},
		},
		SelectedClient: SelectedClientAll,
	}
	if out := g.Generate(in); len(out) != 0 {
		t.Fatalf("stale rule requires >1000 impressions, got %+v", out)
	}
}

func TestGenerate_HighEngagementPost(t *testing.T) {
	g := newTestGenerator()
	in := Input{
		RecentPosts: []SocialPost{
			{Platform: "Instagram", PostID: "p1", Content: "Before/after reveal", Engagement: 250, Reach: 2000, Date: daysAgo(1)},
			{Platform: "Facebook", PostID: "p2", Content: "quiet post", Engagement: 5, Reach: 1000, Date: daysAgo(1)},
			{Platform: "Facebook", PostID: "p3", Content: "zero reach", Engagement: 5, Reach: 0, Date: daysAgo(1)},
		},
		SelectedClient: SelectedClientAll,
	}
	out := g.Generate(in)
	if len(out) != 1 {
		t.Fatalf("expected one high-engagement insight, got %+v", out)
	}
	if out[0].Category != CategoryHighEngagement || !strings.Contains(out[0].Message, "12.5%") {
		t.Fatalf("expected 1-decimal engagement rate, got %+v", out[0])
	}
}

func TestGenerate_DistanceComplaintThreshold(t *testing.T) {
	g := newTestGenerator()
	comment := func(id string) LeadComment {
		return LeadComment{LeadID: id, ClientID: "c1", Comment: "too far away", Date: daysAgo(20), Category: CommentDistance}
	}

	in := Input{LeadComments: []LeadComment{comment("l1"), comment("l2")}, SelectedClient: "c1"}
	out := g.Generate(in)
	if len(out) != 1 {
		t.Fatalf("expected one aggregate distance insight, got %+v", out)
	}
	if out[0].Category != CategoryWarning || !strings.Contains(out[0].Message, "2 leads") {
		t.Fatalf("distance insight must state the count, got %+v", out[0])
	}

	in.LeadComments = in.LeadComments[:1]
	if out := g.Generate(in); len(out) != 0 {
		t.Fatalf("one comment must not trigger the rule, got %+v", out)
	}
}

func TestGenerate_UrgentRecentIssuesPerCategory(t *testing.T) {
	g := newTestGenerator()
	in := Input{
		LeadComments: []LeadComment{
			{LeadID: "l1", ClientID: "c1", Date: daysAgo(2), Category: CommentPricing},
			{LeadID: "l2", ClientID: "c1", Date: daysAgo(3), Category: CommentPricing},
			{LeadID: "l3", ClientID: "c1", Date: daysAgo(30), Category: CommentPricing},
			{LeadID: "l4", ClientID: "c1", Date: daysAgo(1), Category: CommentScheduling},
		},
		SelectedClient: "c1",
	}
	out := g.Generate(in)
	if len(out) != 1 {
		t.Fatalf("expected one urgent pricing insight, got %+v", out)
	}
	if out[0].Category != CategoryUrgent || !strings.Contains(out[0].Message, "2 pricing") {
		t.Fatalf("unexpected urgent insight: %+v", out[0])
	}
}

func TestGenerate_PostContentTruncatesOnRunes(t *testing.T) {
	g := newTestGenerator()
	in := Input{
		RecentPosts: []SocialPost{
			{
				Platform:   "Instagram",
				PostID:     "p1",
				Content:    strings.Repeat("é", 80),
				Engagement: 300,
				Reach:      2000,
			},
		},
		SelectedClient: SelectedClientAll,
	}
	out := g.Generate(in)
	if len(out) != 1 || out[0].Category != CategoryHighEngagement {
		t.Fatalf("expected one high-engagement insight, got %+v", out)
	}
	if !utf8.ValidString(out[0].Message) {
		t.Fatalf("message contains invalid UTF-8: %q", out[0].Message)
	}
	if !strings.Contains(out[0].Message, strings.Repeat("é", 60)+"...") {
		t.Fatalf("content not truncated at 60 runes: %q", out[0].Message)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate(strings.Repeat("日", 10), 4); got != strings.Repeat("日", 4)+"..." {
		t.Errorf("rune truncation = %q", got)
	}
}

func TestGenerate_EmptyInputEmptyOutput(t *testing.T) {
	g := newTestGenerator()
	if out := g.Generate(Input{SelectedClient: SelectedClientAll}); len(out) != 0 {
		t.Fatalf("expected no insights for empty input, got %+v", out)
	}
}
