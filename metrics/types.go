package metrics

import (
	"math"
	"strconv"
	"strings"
)

// FlexNumber is a numeric value that ad platforms deliver either as a JSON
// number or as a quoted decimal string ("123.45"). Anything that does not
// parse to a finite number decodes to 0 so malformed records never poison
// downstream sums with NaN.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = 0
		return nil
	}
	*n = FlexNumber(v)
	return nil
}

func (n FlexNumber) Float64() float64 {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Action is one entry of a Facebook-style actions breakdown.
type Action struct {
	ActionType string     `json:"action_type"`
	Value      FlexNumber `json:"value"`
}

// CampaignInsightRecord is one reporting-period snapshot for a campaign as
// returned by the ad platform. Every field is optional; the conversions
// value can arrive under several names (see Normalize).
type CampaignInsightRecord struct {
	DateStart   string     `json:"date_start,omitempty"`
	DateStop    string     `json:"date_stop,omitempty"`
	Spend       FlexNumber `json:"spend,omitempty"`
	Clicks      FlexNumber `json:"clicks,omitempty"`
	Impressions FlexNumber `json:"impressions,omitempty"`
	Frequency   FlexNumber `json:"frequency,omitempty"`

	Purchase         *FlexNumber `json:"purchase,omitempty"`
	WebsitePurchases *FlexNumber `json:"website_purchases,omitempty"`
	Conversions      *FlexNumber `json:"conversions,omitempty"`
	Actions          []Action    `json:"actions,omitempty"`
}

// InsightData wraps the insight rows the way the Graph API nests them.
type InsightData struct {
	Data []CampaignInsightRecord `json:"data"`
}

// Campaign is an ad campaign with its (possibly absent) insight rows.
type Campaign struct {
	ID        string       `json:"id,omitempty"`
	Name      string       `json:"name"`
	Status    string       `json:"status,omitempty"`
	Objective string       `json:"objective,omitempty"`
	Insights  *InsightData `json:"insights,omitempty"`
}

// NormalizedRecord is an insight record reduced to the fixed numeric shape
// the aggregator works with.
type NormalizedRecord struct {
	Spend       float64 `json:"spend"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Frequency   float64 `json:"frequency"`
	Results     float64 `json:"results"`
}

// AggregatedMetrics holds campaign totals plus the derived ratios. Every
// ratio resolves to 0 when its denominator is 0.
type AggregatedMetrics struct {
	TotalSpent       float64 `json:"total_spent"`
	TotalClicks      float64 `json:"total_clicks"`
	TotalImpressions float64 `json:"total_impressions"`
	TotalResults     float64 `json:"total_results"`
	ConversionRate   float64 `json:"conversion_rate"`
	CostPerResult    float64 `json:"cost_per_result"`
	CostPerClick     float64 `json:"cost_per_click"`
	AverageFrequency float64 `json:"average_frequency"`
}
