package metrics

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultEstimatedLeadRate is the fallback leads-per-click rate applied when
// a window has clicks but no conversion data at all. The 2% figure is a
// product-owner policy value, overridable via ESTIMATED_LEAD_RATE.
const DefaultEstimatedLeadRate = 0.02

// Window restricts aggregation to insight records whose date_start falls
// inside [Since, Until], inclusive, compared at UTC day granularity.
type Window struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether t falls inside the window, both ends inclusive,
// after truncating everything to start of UTC day.
func (w Window) Contains(t time.Time) bool {
	d := dayUTC(t)
	return !d.Before(dayUTC(w.Since)) && !d.After(dayUTC(w.Until))
}

// Previous returns the window of equal length immediately preceding this
// one, used for period comparisons.
func (w Window) Previous() Window {
	since := dayUTC(w.Since)
	until := dayUTC(w.Until)
	days := int(until.Sub(since).Hours()/24) + 1
	return Window{Since: since.AddDate(0, 0, -days), Until: until.AddDate(0, 0, -days)}
}

func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Day boundaries are anchored to UTC. Records carry bare "2006-01-02"
// strings with no zone information, so a record at a local-time boundary
// may land on the neighbouring UTC day; this is a known imprecision.
func parseRecordDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Aggregator folds campaign insight records into totals. The zero value is
// usable; Log, when set, receives per-window debug output instead of the
// core writing to any stream directly.
type Aggregator struct {
	Log logrus.FieldLogger
}

// Aggregate sums normalized insight records across all campaigns, optionally
// restricted to a date window. Campaigns and records are processed in input
// order. A campaign without insight rows contributes zero to every total,
// and a malformed record degrades to a zero contribution rather than
// aborting the fold.
func (a Aggregator) Aggregate(campaigns []Campaign, window *Window) AggregatedMetrics {
	var m AggregatedMetrics
	var freqSum float64
	var freqCount int
	var records, skipped int

	for _, c := range campaigns {
		if c.Insights == nil {
			continue
		}
		for _, rec := range c.Insights.Data {
			if window != nil {
				ts, ok := parseRecordDate(rec.DateStart)
				if !ok || !window.Contains(ts) {
					skipped++
					continue
				}
			}
			n := Normalize(rec)
			m.TotalSpent += n.Spend
			m.TotalClicks += n.Clicks
			m.TotalImpressions += n.Impressions
			m.TotalResults += n.Results
			if n.Frequency > 0 {
				freqSum += n.Frequency
				freqCount++
			}
			records++
		}
	}

	m.ConversionRate = safeDiv(m.TotalResults, m.TotalImpressions) * 100
	m.CostPerResult = safeDiv(m.TotalSpent, m.TotalResults)
	m.CostPerClick = safeDiv(m.TotalSpent, m.TotalClicks)
	m.AverageFrequency = safeDiv(freqSum, float64(freqCount))

	if a.Log != nil {
		a.Log.WithFields(logrus.Fields{
			"campaigns":       len(campaigns),
			"records":         records,
			"records_skipped": skipped,
			"total_spent":     m.TotalSpent,
			"total_results":   m.TotalResults,
			"windowed":        window != nil,
		}).Debug("aggregated campaign insights")
	}
	return m
}

// Aggregate is the package-level convenience over a silent Aggregator.
func Aggregate(campaigns []Campaign, window *Window) AggregatedMetrics {
	return Aggregator{}.Aggregate(campaigns, window)
}

// EstimatedLeads applies the fallback leads heuristic for windows that have
// click volume but no conversion signal. Returns 0 when rate is not positive.
func EstimatedLeads(totalClicks, rate float64) float64 {
	if totalClicks <= 0 || rate <= 0 {
		return 0
	}
	return totalClicks * rate
}

// denominator 0 resolves to 0, never NaN or Inf
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
