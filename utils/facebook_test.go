package utils

import (
	"strings"
	"testing"
)

func TestInsightsFieldsParamRequestsDailyRows(t *testing.T) {
	fields := insightsFieldsParam("2026-08-01", "2026-08-14")

	// Without time_increment(1) the Graph API returns a single row
	// aggregated over the whole range, which cannot be split into
	// comparison windows afterwards.
	if !strings.Contains(fields, ".time_increment(1)") {
		t.Fatalf("fields expression must request per-day rows, got %q", fields)
	}
	if !strings.Contains(fields, "'since':'2026-08-01'") || !strings.Contains(fields, "'until':'2026-08-14'") {
		t.Errorf("fields expression missing time range, got %q", fields)
	}
	if !strings.Contains(fields, facebookInsightFields) {
		t.Errorf("fields expression missing insight metrics, got %q", fields)
	}
}
