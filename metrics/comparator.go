package metrics

// PercentageChange contrasts a current value against a previous-period
// baseline. When the baseline is 0 there is nothing to divide by: any
// positive current value reads as +100% growth, everything else as 0, so
// Inf/NaN never reach the presentation layer.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// PeriodComparison pairs a current aggregate with its prior-period baseline.
type PeriodComparison struct {
	Current          float64 `json:"current"`
	Previous         float64 `json:"previous"`
	PercentageChange float64 `json:"percentage_change"`
}

// Compare builds a PeriodComparison for the two values.
func Compare(current, previous float64) PeriodComparison {
	return PeriodComparison{
		Current:          current,
		Previous:         previous,
		PercentageChange: PercentageChange(current, previous),
	}
}
