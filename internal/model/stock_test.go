package model

import (
	"math"
	"testing"
)

// =========================================================================
// PercentReturn TESTS
// =========================================================================

func TestPercentReturn_Formula(t *testing.T) {
	cases := []struct {
		name      string
		reference float64
		current   float64
		want      float64
	}{
		{"gain", 100, 150, 50},
		{"loss", 100, 75, -25},
		{"flat", 42.5, 42.5, 0},
		{"fractional", 80, 100, 25},
		{"small reference", 0.5, 1, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PercentReturn(tc.reference, tc.current)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("PercentReturn(%v, %v) = %v, want %v", tc.reference, tc.current, got, tc.want)
			}
		})
	}
}

func TestPercentReturn_ZeroReferenceIsInf(t *testing.T) {
	// The division is deliberately unguarded.
	if got := PercentReturn(0, 100); !math.IsInf(got, 1) {
		t.Errorf("PercentReturn(0, 100) = %v, want +Inf", got)
	}
	if got := PercentReturn(0, -100); !math.IsInf(got, -1) {
		t.Errorf("PercentReturn(0, -100) = %v, want -Inf", got)
	}
	if got := PercentReturn(0, 0); !math.IsNaN(got) {
		t.Errorf("PercentReturn(0, 0) = %v, want NaN", got)
	}
}

func TestAdminReturn_UsesCatalogBuyPrice(t *testing.T) {
	s := Stock{BuyPrice: 100, CurrentPrice: 150}
	if got := s.AdminReturn(); got != 50 {
		t.Errorf("AdminReturn() = %v, want 50", got)
	}
}
