package metrics

import (
	"math"
	"testing"
)

func TestPercentageChange_Formula(t *testing.T) {
	cases := []struct {
		current, previous, want float64
	}{
		{150, 100, 50},
		{50, 100, -50},
		{100, 100, 0},
		{0, 40, -100},
		{1.5, 3, -50},
	}
	for _, c := range cases {
		if got := PercentageChange(c.current, c.previous); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("PercentageChange(%v, %v) = %v, want %v", c.current, c.previous, got, c.want)
		}
	}
}

func TestPercentageChange_ZeroPrevious(t *testing.T) {
	if got := PercentageChange(5, 0); got != 100 {
		t.Fatalf("PercentageChange(5, 0) = %v, want 100", got)
	}
	if got := PercentageChange(0, 0); got != 0 {
		t.Fatalf("PercentageChange(0, 0) = %v, want 0", got)
	}
	if got := PercentageChange(-3, 0); got != 0 {
		t.Fatalf("PercentageChange(-3, 0) = %v, want 0", got)
	}
}

func TestCompare(t *testing.T) {
	c := Compare(120, 100)
	if c.Current != 120 || c.Previous != 100 || c.PercentageChange != 20 {
		t.Fatalf("unexpected comparison: %+v", c)
	}
}
