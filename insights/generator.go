package insights

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Rule thresholds.
const (
	growthThreshold     = 20   // % change to call out growth
	declineThreshold    = -15  // % change to call out decline
	staleKeywordDays    = 90   // whole days without a conversion
	staleKeywordMinImpr = 1000 // impressions before staleness matters
	highCPCThreshold    = 5.0  // dollars per click
	highEngagementRate  = 10.0 // engagement/reach * 100
	complaintThreshold  = 2    // comments per category before surfacing
	urgentLookbackDays  = 7    // window for the urgent-issues rule
)

// SelectedClientAll disables scope filtering.
const SelectedClientAll = "all"

// Generator derives advisory insights from metric, keyword, social and
// lead-comment arrays. The clock is injectable so the staleness and
// urgency rules are testable; Log receives per-run debug output.
type Generator struct {
	Now func() time.Time
	Log logrus.FieldLogger
}

// Generate applies the rule set in its fixed evaluation order and returns
// the insights in that order, no deduplication, no ranking. All date math
// is whole-day differences over raw UTC instants; records near a local-time
// midnight may shift by one day, a known imprecision.
func (g Generator) Generate(in Input) []Insight {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}

	out := []Insight{}

	// Platform metric growth/decline. The two rules are mutually exclusive
	// per metric: a metric that hits the growth branch never reaches the
	// decline branch.
	for _, m := range in.PlatformMetrics {
		if !matchesScope(in.SelectedClient, m.AccountID, m.CampaignID) {
			continue
		}
		if m.ChangePercentage >= growthThreshold {
			out = append(out, Insight{
				Category: CategoryGrowth,
				Message: fmt.Sprintf("%s %s is up %s versus the previous period",
					m.Platform, m.Metric, formatPercent(m.ChangePercentage)),
			})
		} else if m.ChangePercentage <= declineThreshold {
			out = append(out, Insight{
				Category: CategoryDecline,
				Message: fmt.Sprintf("%s %s is down %s versus the previous period",
					m.Platform, m.Metric, formatPercent(math.Abs(m.ChangePercentage))),
			})
		}
	}

	// Stale keywords and high-CPC keywords are independent rules: one
	// keyword can trigger both.
	for _, k := range in.KeywordPerformance {
		days := wholeDaysSince(now, k.LastConversionDate)
		if days > staleKeywordDays && k.Impressions > staleKeywordMinImpr {
			out = append(out, Insight{
				Category: CategoryWarning,
				Message: fmt.Sprintf("Keyword %q on %s has gone %d days without a conversion despite %d impressions ($%.2f spent)",
					k.Keyword, k.Platform, days, k.Impressions, k.Cost),
			})
		}
	}
	for _, k := range in.KeywordPerformance {
		if k.CPC > highCPCThreshold && k.Conversions == 0 {
			out = append(out, Insight{
				Category: CategoryHighCost,
				Message: fmt.Sprintf("Keyword %q on %s is costing $%.2f per click with zero conversions",
					k.Keyword, k.Platform, k.CPC),
			})
		}
	}

	for _, p := range in.RecentPosts {
		if p.Reach <= 0 {
			continue
		}
		rate := p.Engagement / p.Reach * 100
		if rate > highEngagementRate {
			out = append(out, Insight{
				Category: CategoryHighEngagement,
				Message: fmt.Sprintf("%s post %q is outperforming with a %.1f%% engagement rate",
					p.Platform, truncate(p.Content, 60), rate),
			})
		}
	}

	scoped := scopedComments(in.LeadComments, in.SelectedClient)

	if n := countCategory(scoped, CommentDistance); n >= complaintThreshold {
		out = append(out, Insight{
			Category: CategoryWarning,
			Message:  fmt.Sprintf("%d leads mentioned distance as a concern; consider tightening geographic targeting", n),
		})
	}
	if n := countCategory(scoped, CommentScheduling); n >= complaintThreshold {
		out = append(out, Insight{
			Category: CategoryWarning,
			Message:  fmt.Sprintf("%d leads reported scheduling difficulties; review booking availability", n),
		})
	}

	// Urgent recent issues: per category with enough comments in the last
	// seven days, emitted in fixed category order for determinism.
	recent := map[CommentCategory]int{}
	for _, c := range scoped {
		if wholeDaysSince(now, c.Date) < urgentLookbackDays {
			recent[categoryOrDefault(c.Category)]++
		}
	}
	for _, cat := range []CommentCategory{CommentDistance, CommentScheduling, CommentPricing, CommentOther} {
		if n := recent[cat]; n >= complaintThreshold {
			out = append(out, Insight{
				Category: CategoryUrgent,
				Message:  fmt.Sprintf("%d %s complaints in the last %d days need attention", n, cat, urgentLookbackDays),
			})
		}
	}

	if g.Log != nil {
		g.Log.WithFields(logrus.Fields{
			"selected_client": in.SelectedClient,
			"metrics":         len(in.PlatformMetrics),
			"keywords":        len(in.KeywordPerformance),
			"posts":           len(in.RecentPosts),
			"comments":        len(in.LeadComments),
			"insights":        len(out),
		}).Debug("generated insights")
	}
	return out
}

func matchesScope(selected, accountID, campaignID string) bool {
	if selected == "" || selected == SelectedClientAll {
		return true
	}
	return selected == accountID || selected == campaignID
}

func scopedComments(comments []LeadComment, selected string) []LeadComment {
	if selected == "" || selected == SelectedClientAll {
		return comments
	}
	out := make([]LeadComment, 0, len(comments))
	for _, c := range comments {
		if c.ClientID == selected {
			out = append(out, c)
		}
	}
	return out
}

func countCategory(comments []LeadComment, cat CommentCategory) int {
	n := 0
	for _, c := range comments {
		if c.Category == cat {
			n++
		}
	}
	return n
}

func categoryOrDefault(cat CommentCategory) CommentCategory {
	switch cat {
	case CommentDistance, CommentScheduling, CommentPricing:
		return cat
	}
	return CommentOther
}

func wholeDaysSince(now, t time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

// formatPercent renders 25.0 as "25%" and 12.5 as "12.5%".
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// truncate shortens post content for message display, counting runes so a
// multibyte character is never cut mid-sequence.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
