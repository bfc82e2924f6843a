package metrics

// Purchase-type action names recognized in an actions breakdown, scanned in
// record order.
var purchaseActionTypes = map[string]struct{}{
	"purchase":                             {},
	"website_purchase":                     {},
	"offsite_conversion.fb_pixel_purchase": {},
}

// Normalize reduces one loosely-typed insight record to the fixed numeric
// shape the aggregator consumes. Missing or malformed fields become 0.
//
// The conversions value is resolved by fixed precedence, first present wins:
// direct purchase field, then website_purchases, then conversions, then the
// first purchase-type entry of the actions array.
func Normalize(rec CampaignInsightRecord) NormalizedRecord {
	return NormalizedRecord{
		Spend:       rec.Spend.Float64(),
		Clicks:      rec.Clicks.Float64(),
		Impressions: rec.Impressions.Float64(),
		Frequency:   rec.Frequency.Float64(),
		Results:     resolveResults(rec),
	}
}

func resolveResults(rec CampaignInsightRecord) float64 {
	switch {
	case rec.Purchase != nil:
		return rec.Purchase.Float64()
	case rec.WebsitePurchases != nil:
		return rec.WebsitePurchases.Float64()
	case rec.Conversions != nil:
		return rec.Conversions.Float64()
	}
	for _, a := range rec.Actions {
		if _, ok := purchaseActionTypes[a.ActionType]; ok {
			return a.Value.Float64()
		}
	}
	return 0
}
